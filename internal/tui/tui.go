// Package tui содержит компоненты для текстового пользовательского интерфейса
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hazadus/go-digger/internal/catalog"
	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/tui/app"
)

// App представляет основное TUI приложение
type App struct {
	catalog *catalog.Client
	library *data.Library
	volume  float64
}

// NewApp создает новый экземпляр TUI приложения
func NewApp(catalogClient *catalog.Client, library *data.Library, volume float64) *App {
	return &App{
		catalog: catalogClient,
		library: library,
		volume:  volume,
	}
}

// Run запускает TUI приложение
func (tuiApp *App) Run() error {
	// Создаем модель для Bubble Tea
	model := app.NewMainModel(tuiApp.catalog, tuiApp.library, tuiApp.volume)

	// Создаем программу Bubble Tea
	p := tea.NewProgram(model, tea.WithAltScreen())

	// Запускаем программу
	_, err := p.Run()

	// Закрываем плеер после завершения программы
	model.Close()

	return err
}
