package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createFavoritesCommand создает команду favorites с привязкой к экземпляру приложения
func (app *Application) createFavoritesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List favorite tracks",
		Long:  `Display favorite tracks in the order they were added.`,
		Run: func(_ *cobra.Command, _ []string) {
			app.listFavorites()
		},
	}
}

func (app *Application) listFavorites() {
	favorites := app.Library.Favorites()
	if len(favorites) == 0 {
		fmt.Println("♥ Избранное пусто. Отмечайте треки клавишей 'f' в 'digger tui'.")
		return
	}

	fmt.Printf("♥ Избранных треков: %d\n\n", len(favorites))
	app.printTrackList(favorites)

	fmt.Println()
	fmt.Println("💡 Используйте 'digger play [N]' для воспроизведения превью")
}
