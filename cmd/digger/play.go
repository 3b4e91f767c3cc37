package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/metadata"
	"github.com/hazadus/go-digger/internal/player"
	"github.com/hazadus/go-digger/internal/utils"
)

// createPlayCommand создает команду play с привязкой к экземпляру приложения
func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var fromRecent bool
	var filePath string

	cmd := &cobra.Command{
		Use:   "play [N]",
		Short: "Play a preview from favorites or history",
		Long:  `Play a 30-second preview by its position in favorites (or in listening history with --recent), or a local mp3 file with --file.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if filePath != "" {
				return app.playFile(ctx, filePath)
			}

			if len(args) == 0 {
				return fmt.Errorf("укажите номер трека или флаг --file")
			}

			position, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("неверный номер трека: %s", args[0])
			}
			return app.playFromLibrary(ctx, position, fromRecent)
		},
	}

	cmd.Flags().BoolVar(&fromRecent, "recent", false, "воспроизвести трек из истории прослушиваний")
	cmd.Flags().StringVar(&filePath, "file", "", "воспроизвести локальный mp3 файл")

	return cmd
}

// enableRawMode включает режим raw для терминала (без буферизации и echo)
func enableRawMode() {
	cmd := exec.Command("stty", "-echo", "-icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// disableRawMode восстанавливает нормальный режим терминала
func disableRawMode() {
	cmd := exec.Command("stty", "echo", "icanon")
	cmd.Stdin = os.Stdin
	_ = cmd.Run() // Игнорируем ошибку, так как это не критично для работы плеера
}

// readSingleChar читает одиночный символ без ожидания Enter
func readSingleChar() (byte, error) {
	buffer := make([]byte, 1)
	_, err := os.Stdin.Read(buffer)
	return buffer[0], err
}

// playFromLibrary воспроизводит трек по его номеру в избранном или истории
func (app *Application) playFromLibrary(ctx context.Context, position int, fromRecent bool) error {
	list := app.Library.Favorites()
	listName := "избранном"
	if fromRecent {
		list = app.Library.Recent()
		listName = "истории"
	}

	if len(list) == 0 {
		return fmt.Errorf("список пуст: в %s нет треков", listName)
	}
	if position < 1 || position > len(list) {
		return fmt.Errorf("неверный номер трека: %d (в %s %d треков)", position, listName, len(list))
	}

	return app.runPlayback(ctx, list[position-1], list)
}

// playFile воспроизводит локальный mp3 файл
func (app *Application) playFile(ctx context.Context, filePath string) error {
	extractor := metadata.NewExtractor()
	track, err := extractor.TrackFromFile(filePath)
	if err != nil {
		return fmt.Errorf("ошибка чтения файла: %w", err)
	}

	return app.runPlayback(ctx, track, []data.Track{track})
}

// runPlayback запускает воспроизведение и главный цикл обработки событий
func (app *Application) runPlayback(ctx context.Context, track data.Track, list []data.Track) error {
	printTrackInfo(track)

	// Создаем плеер; каждый успешный старт попадает в историю прослушиваний
	p := player.NewPlayer(app.Library, app.Config.Volume)
	defer p.Close()

	if err := p.SelectTrack(track, list); err != nil {
		return fmt.Errorf("ошибка запуска воспроизведения: %w", err)
	}

	fmt.Printf("🎮 Управление:\n")
	fmt.Printf("   [Пробел] - пауза/воспроизведение\n")
	fmt.Printf("   [n/p] - следующий/предыдущий трек\n")
	fmt.Printf("   [Ctrl+C] - остановить и выйти\n")
	fmt.Println()

	// Включаем raw режим для чтения одиночных клавиш
	enableRawMode()
	defer disableRawMode()

	// Запускаем горутину для обработки клавиш
	go func() {
		for {
			char, err := readSingleChar()
			if err != nil {
				continue
			}

			switch char {
			case ' ':
				p.TogglePlayPause()
				fmt.Printf("\r\033[K") // Очищаем текущую строку
				if p.IsPlaying() {
					fmt.Printf("▶️  Воспроизведение\n")
				} else {
					fmt.Printf("⏸️  Пауза\n")
				}
			case 'n':
				if err := p.Next(); err == nil {
					announceTrack(p)
				}
			case 'p':
				if err := p.Previous(); err == nil {
					announceTrack(p)
				}
			}
		}
	}()

	// Главный цикл обработки событий
	for {
		select {
		case status := <-p.Progress():
			displayProgress(status)
		case <-p.Done():
			// Трек доиграл до конца: переходим к следующему по списку.
			// Для списка из одного трека просто завершаемся.
			if len(list) <= 1 {
				fmt.Println("\n✅ Воспроизведение завершено")
				return nil
			}
			if err := p.Next(); err != nil {
				return fmt.Errorf("ошибка перехода к следующему треку: %w", err)
			}
			announceTrack(p)
		case <-ctx.Done():
			fmt.Println("\n⏹️  Воспроизведение остановлено")
			p.Stop()
			return nil
		}
	}
}

// printTrackInfo выводит карточку трека перед воспроизведением
func printTrackInfo(track data.Track) {
	fmt.Printf("🎵 Сейчас играет:\n")
	fmt.Printf("   Исполнитель: %s\n", track.Artist)
	fmt.Printf("   Название: %s\n", track.Title)
	if track.Album != "" {
		fmt.Printf("   Альбом: %s\n", track.Album)
	}
	if track.Length > 0 {
		fmt.Printf("   Продолжительность: %s\n", utils.FormatDuration(time.Duration(track.Length)*time.Second))
	}
	fmt.Println()
}

// announceTrack выводит название трека после перехода next/previous
func announceTrack(p *player.Player) {
	if track := p.CurrentTrack(); track != nil {
		fmt.Printf("\r\033[K🎵 %s - %s\n", track.Artist, track.Title)
	}
}

// displayProgress отображает прогресс воспроизведения
func displayProgress(status player.Status) {
	statusIcon := "⏱️"
	if !status.IsPlaying {
		statusIcon = "⏸️"
	}

	if status.Total > 0 {
		fmt.Printf("\r%s  %.1f%% | %s / %s",
			statusIcon,
			status.Progress*100,
			utils.FormatDuration(status.Current),
			utils.FormatDuration(status.Total))
	} else {
		// Длительность неизвестна — показываем только текущую позицию
		fmt.Printf("\r%s  %s", statusIcon, utils.FormatDuration(status.Current))
	}
}
