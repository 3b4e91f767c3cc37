package player

import (
	"errors"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/player"
)

func newTestModel(t *testing.T) (*Model, *data.Library) {
	t.Helper()

	library := data.NewLibrary(data.NewMemoryStore())
	globalPlayer := player.NewPlayer(library, 0.8)
	t.Cleanup(func() { globalPlayer.Close() })

	track := data.Track{
		ID:         1,
		Title:      "Test Track",
		Artist:     "Test Artist",
		Album:      "Test Album",
		PreviewURL: "https://cdn.example.com/1.mp3",
	}

	return NewModel(track, []data.Track{track}, globalPlayer, library), library
}

func TestGoBackKey(t *testing.T) {
	model, _ := newTestModel(t)

	// 'q' возвращает к экрану обзора, не останавливая воспроизведение
	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Ожидалась команда возврата")
	}

	if _, ok := cmd().(GoBackMsg); !ok {
		t.Errorf("Ожидалось сообщение GoBackMsg, получено %T", cmd())
	}
}

func TestFavoriteToggleKey(t *testing.T) {
	model, library := newTestModel(t)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})

	if !library.IsFavorite(1) {
		t.Error("Трек должен попасть в избранное")
	}

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("f")})

	if library.IsFavorite(1) {
		t.Error("Повторное нажатие должно убрать трек из избранного")
	}
}

func TestVolumeKeys(t *testing.T) {
	model, _ := newTestModel(t)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	if math.Abs(model.player.Volume()-0.9) > 1e-9 {
		t.Errorf("Ожидалась громкость 0.9, получено %f", model.player.Volume())
	}

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	// Громкость не превышает максимум
	if model.player.Volume() != 1 {
		t.Errorf("Громкость должна обрезаться до 1, получено %f", model.player.Volume())
	}

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("m")})
	if !model.player.IsMuted() {
		t.Error("После 'm' звук должен быть выключен")
	}
}

func TestIsPlayingDrivenByEngineStatus(t *testing.T) {
	model, _ := newTestModel(t)

	// До первого статуса от движка флаг воспроизведения снят
	if model.isPlaying {
		t.Error("До первого статуса движка флаг воспроизведения должен быть снят")
	}

	updated, _ := model.Update(ProgressMsg{Status: player.Status{IsPlaying: true}})
	model = updated.(*Model)
	if !model.isPlaying {
		t.Error("Статус движка должен включать флаг воспроизведения")
	}

	updated, _ = model.Update(ProgressMsg{Status: player.Status{IsPlaying: false}})
	model = updated.(*Model)
	if model.isPlaying {
		t.Error("Статус движка должен снимать флаг воспроизведения")
	}
}

func TestStartPlaybackErrorMessage(t *testing.T) {
	library := data.NewLibrary(data.NewMemoryStore())
	globalPlayer := player.NewPlayer(library, 0.8)
	t.Cleanup(func() { globalPlayer.Close() })

	// Трек без URL превью: старт завершается ошибкой без обращения к сети
	track := data.Track{ID: 7, Title: "No Preview", Artist: "Test Artist"}
	model := NewModel(track, []data.Track{track}, globalPlayer, library)

	msg := model.startPlayback()()
	if _, ok := msg.(PlaybackErrorMsg); !ok {
		t.Errorf("Ожидалось сообщение PlaybackErrorMsg, получено %T", msg)
	}
}

func TestViewShowsTrackInfo(t *testing.T) {
	model, _ := newTestModel(t)

	view := model.View()
	if !strings.Contains(view, "Test Artist") {
		t.Error("Экран должен показывать исполнителя")
	}
	if !strings.Contains(view, "Test Track") {
		t.Error("Экран должен показывать название трека")
	}
}

func TestViewShowsError(t *testing.T) {
	model, _ := newTestModel(t)

	updated, _ := model.Update(PlaybackErrorMsg{Error: errors.New("preview unavailable")})
	model = updated.(*Model)

	view := model.View()
	if !strings.Contains(view, "Ошибка воспроизведения") {
		t.Error("Экран должен показывать заголовок ошибки")
	}
	if !strings.Contains(view, "preview unavailable") {
		t.Error("Экран должен показывать текст ошибки")
	}
}
