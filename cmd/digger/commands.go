package main

import (
	"context"

	"github.com/spf13/cobra"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "digger",
		Short: "A command line tool to discover and preview music",
		Long:  `A command line tool to search the music catalog, play 30-second previews and keep favorites and listening history.`,
	}

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createSearchCommand(ctx))
	rootCmd.AddCommand(app.createTrendingCommand(ctx))
	rootCmd.AddCommand(app.createFavoritesCommand())
	rootCmd.AddCommand(app.createRecentCommand())
	rootCmd.AddCommand(app.createPlayCommand(ctx))
	rootCmd.AddCommand(app.createBackupCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand())

	return rootCmd
}
