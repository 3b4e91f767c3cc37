// Package player содержит модель экрана воспроизведения для TUI
package player

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/player"
	"github.com/hazadus/go-digger/internal/utils"
)

// Шаги управления с клавиатуры
const (
	seekStep   = 0.05 // Перемотка стрелками, доля длительности
	volumeStep = 0.1  // Шаг изменения громкости
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#0000ff")).
			MarginBottom(1)

	trackInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff0000")).
			Bold(true)
)

// GoBackMsg отправляется для возврата к экрану обзора
type GoBackMsg struct{}

// ProgressMsg содержит обновления прогресса воспроизведения
type ProgressMsg struct {
	Status player.Status
}

// TrackEndedMsg отправляется, когда трек доиграл до конца
type TrackEndedMsg struct{}

// PlaybackErrorMsg отправляется при ошибке воспроизведения
type PlaybackErrorMsg struct {
	Error error
}

// Model представляет модель экрана воспроизведения
type Model struct {
	track       data.Track
	activeList  []data.Track
	player      *player.Player
	library     *data.Library
	progressBar progress.Model
	status      player.Status
	isPlaying   bool
	error       error
	width       int
	height      int
}

// NewModel создает модель плеера поверх существующего глобального плеера.
// activeList — список, по которому работают переходы next/previous.
func NewModel(track data.Track, activeList []data.Track, globalPlayer *player.Player, library *data.Library) *Model {
	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 40

	return &Model{
		track:       track,
		activeList:  activeList,
		player:      globalPlayer,
		library:     library,
		progressBar: prog,
	}
}

// Init инициализирует модель и запускает воспроизведение
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.startPlayback(),
		m.listenForProgress(),
	)
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(60, msg.Width-10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ProgressMsg:
		m.status = msg.Status
		m.isPlaying = msg.Status.IsPlaying

		// Обновляем прогресс-бар и продолжаем слушать обновления
		return m, tea.Batch(
			m.progressBar.SetPercent(msg.Status.Progress),
			m.listenForProgress(),
		)

	case TrackEndedMsg:
		// Трек доиграл до конца — автоматически переходим к следующему
		if err := m.player.Next(); err != nil {
			m.error = err
			m.isPlaying = false
			return m, nil
		}
		m.refreshTrack()
		return m, m.listenForProgress()

	case PlaybackErrorMsg:
		m.error = msg.Error
		m.isPlaying = false
		return m, nil

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}

// handleKey обрабатывает нажатия клавиш
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		// Возвращаемся к обзору; воспроизведение продолжается в фоне
		return m, func() tea.Msg {
			return GoBackMsg{}
		}

	case " ":
		m.player.TogglePlayPause()
		m.isPlaying = m.player.IsPlaying()
		return m, nil

	case "n":
		if err := m.player.Next(); err != nil {
			m.error = err
			return m, nil
		}
		m.refreshTrack()
		return m, nil

	case "p":
		if err := m.player.Previous(); err != nil {
			m.error = err
			return m, nil
		}
		m.refreshTrack()
		return m, nil

	case "left":
		if err := m.player.Seek(m.status.Progress - seekStep); err != nil {
			m.error = err
		}
		return m, nil

	case "right":
		if err := m.player.Seek(m.status.Progress + seekStep); err != nil {
			m.error = err
		}
		return m, nil

	case "+", "=":
		m.player.SetVolume(m.player.Volume() + volumeStep)
		return m, nil

	case "-":
		m.player.SetVolume(m.player.Volume() - volumeStep)
		return m, nil

	case "m":
		m.player.ToggleMute()
		return m, nil

	case "f":
		if _, err := m.library.ToggleFavorite(m.track); err != nil {
			m.error = err
		}
		return m, nil
	}

	return m, nil
}

// View отображает модель
func (m *Model) View() string {
	if m.error != nil {
		return fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			titleStyle.Render("❌ Ошибка воспроизведения"),
			errorStyle.Render(m.error.Error()),
			controlsStyle.Render("Нажмите 'q' или 'esc' для возврата"),
		)
	}

	// Заголовок
	title := titleStyle.Render("🎵 Воспроизведение")

	// Информация о треке
	favoriteMark := ""
	if m.library.IsFavorite(m.track.ID) {
		favoriteMark = " ♥"
	}
	trackInfo := trackInfoStyle.Render(fmt.Sprintf(
		"🎤 %s\n🎵 %s%s\n💿 %s",
		m.track.Artist,
		m.track.Title,
		favoriteMark,
		m.track.Album,
	))

	// Статус воспроизведения
	var statusIcon string
	if m.isPlaying {
		statusIcon = "▶️"
	} else {
		statusIcon = "⏸️"
	}
	statusText := statusStyle.Render(fmt.Sprintf("%s %s", statusIcon, formatStatus(m.isPlaying)))

	// Прогресс-бар
	progressView := m.progressBar.View()

	// Время
	timeText := fmt.Sprintf(
		"%s / %s",
		utils.FormatDuration(m.status.Current),
		utils.FormatDuration(m.status.Total),
	)

	// Громкость
	var volumeText string
	if m.player.IsMuted() {
		volumeText = "🔇 без звука"
	} else {
		volumeText = fmt.Sprintf("🔊 %d%%", int(m.player.Volume()*100+0.5))
	}

	// Элементы управления
	controls := controlsStyle.Render(
		"Пробел: пауза • n/p: следующий/предыдущий • ←/→: перемотка\n" +
			"+/-: громкость • m: без звука • f: избранное • q/esc: назад",
	)

	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\n%s\n%s\n%s\n\n%s",
		title,
		trackInfo,
		statusText,
		progressView,
		timeText,
		volumeText,
		controls,
	)
}

// startPlayback запускает воспроизведение трека. Статус не фабрикуется:
// первое обновление придет от движка через канал прогресса.
func (m *Model) startPlayback() tea.Cmd {
	return func() tea.Msg {
		if err := m.player.SelectTrack(m.track, m.activeList); err != nil {
			return PlaybackErrorMsg{Error: err}
		}
		return nil
	}
}

// refreshTrack синхронизирует отображаемый трек с состоянием плеера
func (m *Model) refreshTrack() {
	if current := m.player.CurrentTrack(); current != nil {
		m.track = *current
	}
	m.isPlaying = m.player.IsPlaying()
	m.error = nil
}

// listenForProgress слушает обновления прогресса и сигнал окончания трека
func (m *Model) listenForProgress() tea.Cmd {
	return func() tea.Msg {
		select {
		case status := <-m.player.Progress():
			return ProgressMsg{Status: status}

		case <-m.player.Done():
			return TrackEndedMsg{}
		}
	}
}

// Вспомогательные функции

func formatStatus(isPlaying bool) string {
	if isPlaying {
		return "Воспроизведение"
	}
	return "Пауза"
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
