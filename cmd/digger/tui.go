package main

import (
	"github.com/spf13/cobra"

	"github.com/hazadus/go-digger/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for browsing the catalog and playing previews.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.launchTUI()
		},
	}
}

func (app *Application) launchTUI() error {
	tuiApp := tui.NewApp(app.Catalog, app.Library, app.Config.Volume)
	return tuiApp.Run()
}
