package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// createRecentCommand создает команду recent с привязкой к экземпляру приложения
func (app *Application) createRecentCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently played tracks",
		Long:  `Display listening history, most recent first.`,
		Run: func(_ *cobra.Command, _ []string) {
			app.listRecent()
		},
	}
}

func (app *Application) listRecent() {
	recent := app.Library.Recent()
	if len(recent) == 0 {
		fmt.Println("🕒 История прослушиваний пуста.")
		return
	}

	fmt.Printf("🕒 Недавно прослушано: %d\n\n", len(recent))
	app.printTrackList(recent)

	fmt.Println()
	fmt.Println("💡 Используйте 'digger play [N] --recent' для повторного прослушивания")
}
