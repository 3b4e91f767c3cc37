// Package browse содержит модель экрана обзора каталога для TUI:
// поиск, чарт, избранное и история прослушиваний
package browse

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hazadus/go-digger/internal/catalog"
	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/utils"
)

var (
	titleStyle        = lipgloss.NewStyle().MarginLeft(2)
	itemStyle         = lipgloss.NewStyle().PaddingLeft(4)
	selectedItemStyle = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("170"))
	paginationStyle   = list.DefaultStyles().PaginationStyle.PaddingLeft(4)
	helpStyle         = list.DefaultStyles().HelpStyle.PaddingLeft(4).PaddingBottom(1)
	sourceStyle       = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#888888"))
	activeSourceStyle = lipgloss.NewStyle().PaddingLeft(2).Bold(true).Foreground(lipgloss.Color("170"))
	statusStyle       = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("#ff5555"))
)

// Source определяет источник списка треков на экране обзора
type Source int

// Константы источников
const (
	// SourceSearch - результаты поиска по каталогу
	SourceSearch Source = iota
	// SourceChart - чарт каталога
	SourceChart
	// SourceFavorites - избранное пользователя
	SourceFavorites
	// SourceRecent - история прослушиваний
	SourceRecent
)

// sourceTitles подписи вкладок в порядке переключения
var sourceTitles = map[Source]string{
	SourceSearch:    "Поиск",
	SourceChart:     "Чарт",
	SourceFavorites: "Избранное",
	SourceRecent:    "История",
}

// TrackSelectedMsg отправляется при выборе трека для воспроизведения.
// List — список, из которого трек выбран; по нему работают переходы
// next/previous на экране плеера.
type TrackSelectedMsg struct {
	Track data.Track
	List  []data.Track
}

// tracksLoadedMsg приходит по завершении запроса к каталогу
type tracksLoadedMsg struct {
	seq    uint64
	source Source
	tracks []data.Track
	err    error
}

// trackItem реализует интерфейс list.Item для трека
type trackItem struct {
	track    data.Track
	favorite bool
}

func (i trackItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.track.Artist, i.track.Title)
}

// trackItemDelegate реализует отображение элементов списка
type trackItemDelegate struct{}

func (d trackItemDelegate) Height() int                             { return 1 }
func (d trackItemDelegate) Spacing() int                            { return 0 }
func (d trackItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d trackItemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(trackItem)
	if !ok {
		return
	}

	marker := " "
	if i.favorite {
		marker = "♥"
	}

	// Форматируем строку: избранное | Исполнитель | Название | Продолжительность
	duration := utils.FormatDurationFromSeconds(i.track.Length)
	str := fmt.Sprintf("%s %-20s %-45s %s",
		marker,
		utils.TruncateString(i.track.Artist, 20),
		utils.TruncateString(i.track.Title, 45),
		duration)

	fn := itemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return selectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

// Model представляет модель экрана обзора каталога
type Model struct {
	catalog *catalog.Client
	library *data.Library

	input textinput.Model
	list  list.Model

	source Source
	tracks []data.Track
	status string

	// Счетчик поколений запросов: ответ с устаревшим номером отбрасывается,
	// даже если он пришел позже более нового
	searchSeq uint64
	cancel    context.CancelFunc

	quitting bool
}

// NewModel создает новую модель экрана обзора
func NewModel(catalogClient *catalog.Client, library *data.Library) *Model {
	input := textinput.New()
	input.Placeholder = "Исполнитель или название трека..."
	input.Prompt = "🔍 "
	input.CharLimit = 100

	l := list.New(nil, trackItemDelegate{}, 0, 0)
	l.Title = "Каталог"
	l.SetShowStatusBar(false)
	l.SetShowTitle(true)
	// Фильтрация списка отключена: поиск идет через каталог
	l.SetFilteringEnabled(false)
	l.Styles.Title = titleStyle
	l.Styles.PaginationStyle = paginationStyle
	l.Styles.HelpStyle = helpStyle

	return &Model{
		catalog: catalogClient,
		library: library,
		input:   input,
		list:    l,
		source:  SourceChart,
	}
}

// Init инициализирует модель и загружает чарт
func (m *Model) Init() tea.Cmd {
	return m.loadChart()
}

// RefreshData перечитывает избранное и историю из библиотеки.
// Вызывается при возврате с экрана плеера: там могли измениться обе коллекции.
func (m *Model) RefreshData() {
	switch m.source {
	case SourceFavorites:
		m.setTracks(m.library.Favorites())
	case SourceRecent:
		m.setTracks(m.library.Recent())
	default:
		// Маркеры избранного в элементах списка могли измениться
		m.setTracks(m.tracks)
	}
}

// Update обрабатывает сообщения и обновляет модель
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 8) // Оставляем место для вкладок, поиска и справки
		return m, nil

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateSearchInput(msg)
		}
		return m.updateList(msg)

	case tracksLoadedMsg:
		// Устаревший ответ отбрасываем: пользователь уже отправил новый
		// запрос или переключил источник
		if msg.seq != m.searchSeq || msg.source != m.source {
			return m, nil
		}
		if msg.err != nil {
			// Недоступный чарт деградирует тихо: это вспомогательный
			// список, прежнее содержимое экрана остается на месте
			if msg.source != SourceChart {
				m.status = fmt.Sprintf("Ошибка: %v", msg.err)
			}
			return m, nil
		}
		m.status = ""
		m.setTracks(msg.tracks)
		if msg.source == SourceSearch && len(msg.tracks) == 0 {
			m.status = "Ничего не найдено"
		}
		return m, nil
	}

	// Обновляем список
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateSearchInput обрабатывает клавиши, пока фокус в строке поиска
func (m *Model) updateSearchInput(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.input.Blur()
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.input.Value())
		m.input.Blur()
		// Пустой запрос — тихий no-op: список не трогаем
		if query == "" {
			return m, nil
		}
		m.source = SourceSearch
		return m, m.search(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// updateList обрабатывает клавиши, пока фокус в списке треков
func (m *Model) updateList(msg tea.KeyMsg) (*Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "/":
		m.input.Focus()
		return m, textinput.Blink

	case "tab":
		return m, m.switchSource(1)

	case "shift+tab":
		return m, m.switchSource(-1)

	case "f":
		// Переключаем избранное для выбранного трека
		if item, ok := m.list.SelectedItem().(trackItem); ok {
			if _, err := m.library.ToggleFavorite(item.track); err != nil {
				m.status = fmt.Sprintf("Ошибка сохранения: %v", err)
			}
			m.RefreshData()
		}
		return m, nil

	case "enter":
		if item, ok := m.list.SelectedItem().(trackItem); ok {
			track := item.track
			activeList := make([]data.Track, len(m.tracks))
			copy(activeList, m.tracks)
			return m, func() tea.Msg {
				return TrackSelectedMsg{Track: track, List: activeList}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View отображает модель
func (m *Model) View() string {
	if m.quitting {
		return titleStyle.Render("До свидания!")
	}

	var b strings.Builder

	// Вкладки источников
	tabs := make([]string, 0, len(sourceTitles))
	for source := SourceSearch; source <= SourceRecent; source++ {
		style := sourceStyle
		if source == m.source {
			style = activeSourceStyle
		}
		tabs = append(tabs, style.Render(sourceTitles[source]))
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	b.WriteString("  " + m.input.View())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.list.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Enter: воспроизвести • /: поиск • Tab: источник • f: избранное • q: выход"))

	return b.String()
}

// switchSource переключает источник списка по кругу
func (m *Model) switchSource(delta int) tea.Cmd {
	count := int(SourceRecent) + 1
	m.source = Source(((int(m.source)+delta)%count + count) % count)
	m.status = ""

	switch m.source {
	case SourceSearch:
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			m.dropPending()
			m.setTracks(nil)
			return nil
		}
		return m.search(query)
	case SourceChart:
		return m.loadChart()
	case SourceFavorites:
		m.dropPending()
		m.setTracks(m.library.Favorites())
	case SourceRecent:
		m.dropPending()
		m.setTracks(m.library.Recent())
	}
	return nil
}

// dropPending отменяет запрос в полете и закрывает его поколение:
// запоздавший ответ каталога не сможет перезаписать локальный список
func (m *Model) dropPending() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.searchSeq++
}

// setTracks заменяет содержимое списка
func (m *Model) setTracks(tracks []data.Track) {
	m.tracks = tracks

	items := make([]list.Item, len(tracks))
	for i, track := range tracks {
		items[i] = trackItem{track: track, favorite: m.library.IsFavorite(track.ID)}
	}
	m.list.SetItems(items)
	m.list.Title = sourceTitles[m.source]
}

// search запускает поиск в каталоге, отменяя предыдущий запрос
func (m *Model) search(query string) tea.Cmd {
	ctx := m.nextRequest()
	seq := m.searchSeq
	m.status = "Поиск..."

	return func() tea.Msg {
		tracks, err := m.catalog.Search(ctx, query)
		return tracksLoadedMsg{seq: seq, source: SourceSearch, tracks: tracks, err: err}
	}
}

// loadChart загружает чарт каталога
func (m *Model) loadChart() tea.Cmd {
	ctx := m.nextRequest()
	seq := m.searchSeq

	return func() tea.Msg {
		tracks, err := m.catalog.Trending(ctx)
		return tracksLoadedMsg{seq: seq, source: SourceChart, tracks: tracks, err: err}
	}
}

// nextRequest отменяет предыдущий запрос к каталогу и открывает новое поколение
func (m *Model) nextRequest() context.Context {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.searchSeq++
	return ctx
}
