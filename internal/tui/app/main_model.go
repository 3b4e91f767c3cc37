// Package app содержит основную логику TUI приложения
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-digger/internal/catalog"
	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/player"
	"github.com/hazadus/go-digger/internal/tui/browse"
	tuiPlayer "github.com/hazadus/go-digger/internal/tui/player"
)

// ScreenType определяет тип текущего экрана
type ScreenType int

// Константы для типов экранов
const (
	// BrowseScreen - экран обзора каталога
	BrowseScreen ScreenType = iota
	// PlayerScreen - экран плеера
	PlayerScreen
)

// MainModel представляет главную модель TUI
type MainModel struct {
	library       *data.Library
	currentScreen ScreenType
	browseModel   *browse.Model
	playerModel   *tuiPlayer.Model
	globalPlayer  *player.Player // Глобальный плеер для переиспользования
}

// NewMainModel создает новую главную модель
func NewMainModel(catalogClient *catalog.Client, library *data.Library, volume float64) *MainModel {
	// Создаем модель экрана обзора
	browseModel := browse.NewModel(catalogClient, library)

	// Создаем глобальный плеер один раз
	globalPlayer := player.NewPlayer(library, volume)

	return &MainModel{
		library:       library,
		currentScreen: BrowseScreen,
		browseModel:   browseModel,
		playerModel:   nil, // Будет создана при выборе трека
		globalPlayer:  globalPlayer,
	}
}

// Init инициализирует модель
func (m *MainModel) Init() tea.Cmd {
	return m.browseModel.Init()
}

// Update обрабатывает сообщения
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Глобальные горячие клавиши
		switch msg.String() {
		case "ctrl+c":
			// Останавливаем плеер перед выходом
			if m.globalPlayer != nil {
				m.globalPlayer.Stop()
			}
			return m, tea.Quit
		}

	case browse.TrackSelectedMsg:
		// Переключаемся на экран плеера с выбранным треком
		m.currentScreen = PlayerScreen
		m.playerModel = tuiPlayer.NewModel(msg.Track, msg.List, m.globalPlayer, m.library)
		return m, m.playerModel.Init()

	case tuiPlayer.GoBackMsg:
		// Возвращаемся к обзору; избранное и история могли измениться
		m.currentScreen = BrowseScreen
		m.playerModel = nil
		m.browseModel.RefreshData()
		return m, nil

	case tea.WindowSizeMsg:
		// Передаем размеры окна активной модели
		switch m.currentScreen {
		case BrowseScreen:
			var browseCmd tea.Cmd
			m.browseModel, browseCmd = m.browseModel.Update(msg)
			return m, browseCmd
		case PlayerScreen:
			if m.playerModel != nil {
				var playerCmd tea.Cmd
				updatedModel, playerCmd := m.playerModel.Update(msg)
				if playerModel, ok := updatedModel.(*tuiPlayer.Model); ok {
					m.playerModel = playerModel
				}
				return m, playerCmd
			}
		}
		return m, nil
	}

	// Передаем сообщение активной модели
	switch m.currentScreen {
	case BrowseScreen:
		var browseCmd tea.Cmd
		m.browseModel, browseCmd = m.browseModel.Update(msg)
		cmd = browseCmd

	case PlayerScreen:
		if m.playerModel != nil {
			var playerCmd tea.Cmd
			updatedModel, playerCmd := m.playerModel.Update(msg)
			if playerModel, ok := updatedModel.(*tuiPlayer.Model); ok {
				m.playerModel = playerModel
			}
			cmd = playerCmd
		}
	}

	return m, cmd
}

// View отображает интерфейс
func (m *MainModel) View() string {
	switch m.currentScreen {
	case BrowseScreen:
		return m.browseModel.View()

	case PlayerScreen:
		if m.playerModel != nil {
			return m.playerModel.View()
		}
		return "Ошибка: модель плеера не инициализирована"

	default:
		return "Неизвестный экран"
	}
}

// Close закрывает ресурсы главной модели
func (m *MainModel) Close() {
	if m.globalPlayer != nil {
		m.globalPlayer.Close()
	}
}
