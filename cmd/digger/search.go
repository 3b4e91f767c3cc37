package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// createSearchCommand создает команду search с привязкой к экземпляру приложения
func (app *Application) createSearchCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "search [query]",
		Short: "Search tracks in the music catalog",
		Long:  `Search the music catalog by artist or track title and display matching tracks with preview availability.`,
		Args:  cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return app.searchTracks(ctx, strings.Join(args, " "))
		},
	}
}

func (app *Application) searchTracks(ctx context.Context, query string) error {
	// Пустой запрос — тихий no-op, как и в TUI
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	tracks, err := app.Catalog.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("ошибка поиска: %w", err)
	}

	if len(tracks) == 0 {
		fmt.Printf("🔍 По запросу %q ничего не найдено.\n", query)
		return nil
	}

	fmt.Printf("🔍 Найдено треков: %d\n\n", len(tracks))
	app.printTrackList(tracks)

	fmt.Println()
	fmt.Println("💡 Используйте 'digger tui' для прослушивания превью")
	return nil
}
