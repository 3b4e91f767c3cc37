package main

import (
	"fmt"
	"strings"

	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/utils"
)

// printTrackList выводит нумерованную таблицу треков
func (app *Application) printTrackList(tracks []data.Track) {
	// Выводим заголовок таблицы
	fmt.Printf("%-4s %-2s %-25s %-35s %-25s %s\n",
		"N", "", "Исполнитель", "Название", "Альбом", "Длительность")
	fmt.Println(strings.Repeat("-", 100))

	for i, track := range tracks {
		duration := utils.FormatDurationFromSeconds(track.Length)
		if track.Length == 0 {
			duration = "N/A"
		}

		marker := ""
		if app.Library.IsFavorite(track.ID) {
			marker = "♥"
		}

		fmt.Printf("%-4d %-2s %-25s %-35s %-25s %s\n",
			i+1,
			marker,
			utils.TruncateString(track.Artist, 25),
			utils.TruncateString(track.Title, 35),
			utils.TruncateString(track.Album, 25),
			duration)
	}
}
