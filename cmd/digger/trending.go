package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// createTrendingCommand создает команду trending с привязкой к экземпляру приложения
func (app *Application) createTrendingCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "Show trending tracks from the catalog chart",
		Long:  `Display the current catalog chart with the most popular tracks.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.showTrending(ctx)
		},
	}
}

func (app *Application) showTrending(ctx context.Context) error {
	tracks, err := app.Catalog.Trending(ctx)
	if err != nil {
		return fmt.Errorf("ошибка загрузки чарта: %w", err)
	}

	if len(tracks) == 0 {
		fmt.Println("📈 Чарт пуст.")
		return nil
	}

	fmt.Printf("📈 Чарт каталога: %d треков\n\n", len(tracks))
	app.printTrackList(tracks)

	fmt.Println()
	fmt.Println("💡 Используйте 'digger tui' для прослушивания превью")
	return nil
}
