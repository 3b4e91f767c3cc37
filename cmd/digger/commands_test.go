package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/hazadus/go-digger/internal/catalog"
	"github.com/hazadus/go-digger/internal/config"
	"github.com/hazadus/go-digger/internal/data"
)

// captureOutput перехватывает stdout и stderr во время выполнения функции
func captureOutput(t *testing.T, fn func()) string {
	// Сохраняем оригинальные stdout и stderr
	oldStdout := os.Stdout
	oldStderr := os.Stderr

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Ошибка создания pipe: %v", err)
	}

	// Перенаправляем stdout и stderr
	os.Stdout = w
	os.Stderr = w

	// Выполняем функцию
	fn()

	// Восстанавливаем оригинальные stdout и stderr
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("Ошибка чтения результата: %v", err)
	}

	return buf.String()
}

// createTestApplication создает тестовое приложение с библиотекой в памяти
func createTestApplication(catalogURL string) *Application {
	testConfig := &config.Config{
		APIURL:  catalogURL,
		DataDir: "",
		Volume:  0.8,
	}

	library := data.NewLibrary(data.NewMemoryStore())

	return &Application{
		Config:  testConfig,
		Library: library,
		Catalog: catalog.NewClient(catalogURL, ""),
	}
}

// testTrack возвращает тестовый трек
func testTrack(id int64, artist, title string) data.Track {
	return data.Track{
		ID:         id,
		Artist:     artist,
		Title:      title,
		Album:      "Test Album",
		PreviewURL: fmt.Sprintf("https://cdn.example.com/%d.mp3", id),
		Length:     30,
	}
}

// TestCmdFavoritesEmpty проверяет, что команда `favorites` корректно обрабатывает пустое избранное
func TestCmdFavoritesEmpty(t *testing.T) {
	app := createTestApplication("https://api.example.com")

	favoritesCmd := app.createFavoritesCommand()

	output := captureOutput(t, func() {
		favoritesCmd.SetArgs([]string{})
		if err := favoritesCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды favorites: %v", err)
		}
	})

	if !strings.Contains(output, "Избранное пусто") {
		t.Errorf("Команда favorites не отобразила сообщение о пустом избранном: %s", output)
	}
}

// TestCmdFavorites проверяет, что команда `favorites` выводит список избранного
func TestCmdFavorites(t *testing.T) {
	app := createTestApplication("https://api.example.com")

	if _, err := app.Library.ToggleFavorite(testTrack(1, "Test Artist", "Test Title")); err != nil {
		t.Fatalf("Ошибка добавления в избранное: %v", err)
	}

	favoritesCmd := app.createFavoritesCommand()

	output := captureOutput(t, func() {
		favoritesCmd.SetArgs([]string{})
		if err := favoritesCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды favorites: %v", err)
		}
	})

	expectedStrings := []string{
		"Избранных треков: 1",
		"Test Artist",
		"Test Title",
		"Test Album",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды favorites не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdRecent проверяет, что команда `recent` выводит историю, самые свежие — первыми
func TestCmdRecent(t *testing.T) {
	app := createTestApplication("https://api.example.com")

	if err := app.Library.RecordPlay(testTrack(1, "First Artist", "First Title")); err != nil {
		t.Fatalf("Ошибка записи в историю: %v", err)
	}
	if err := app.Library.RecordPlay(testTrack(2, "Second Artist", "Second Title")); err != nil {
		t.Fatalf("Ошибка записи в историю: %v", err)
	}

	recentCmd := app.createRecentCommand()

	output := captureOutput(t, func() {
		recentCmd.SetArgs([]string{})
		if err := recentCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды recent: %v", err)
		}
	})

	if !strings.Contains(output, "Недавно прослушано: 2") {
		t.Errorf("Команда recent не отобразила количество треков: %s", output)
	}

	// Последний прослушанный трек выводится первым
	secondPos := strings.Index(output, "Second Artist")
	firstPos := strings.Index(output, "First Artist")
	if secondPos == -1 || firstPos == -1 || secondPos > firstPos {
		t.Errorf("История должна выводиться от свежих к старым: %s", output)
	}
}

// TestCmdSearch проверяет, что команда `search` выводит результаты поиска
func TestCmdSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/search") {
			t.Errorf("Неожиданный путь запроса: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"id":42,"title":"Found Track","duration":185,"preview":"https://cdn.example.com/42.mp3","artist":{"name":"Found Artist"},"album":{"title":"Found Album"}}]}`)
	}))
	defer server.Close()

	app := createTestApplication(server.URL)

	searchCmd := app.createSearchCommand(context.Background())

	output := captureOutput(t, func() {
		searchCmd.SetArgs([]string{"found", "artist"})
		if err := searchCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды search: %v", err)
		}
	})

	expectedStrings := []string{
		"Найдено треков: 1",
		"Found Artist",
		"Found Track",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("Вывод команды search не содержит ожидаемую строку '%s': %s", expected, output)
		}
	}
}

// TestCmdSearchEmptyQuery проверяет, что пустой запрос — тихий no-op без похода в сеть
func TestCmdSearchEmptyQuery(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requested = true
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer server.Close()

	app := createTestApplication(server.URL)

	searchCmd := app.createSearchCommand(context.Background())

	output := captureOutput(t, func() {
		searchCmd.SetArgs([]string{"   "})
		if err := searchCmd.Execute(); err != nil {
			t.Errorf("Пустой запрос не должен возвращать ошибку: %v", err)
		}
	})

	if requested {
		t.Error("Пустой запрос не должен отправляться в каталог")
	}
	if strings.Contains(output, "Найдено") || strings.Contains(output, "не найдено") {
		t.Errorf("Пустой запрос не должен выводить результаты: %s", output)
	}
}

// TestCmdTrending проверяет, что команда `trending` выводит чарт
func TestCmdTrending(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/chart/0/tracks") {
			t.Errorf("Неожиданный путь запроса: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":[{"id":7,"title":"Chart Track","duration":200,"preview":"https://cdn.example.com/7.mp3","artist":{"name":"Chart Artist"},"album":{"title":"Chart Album"}}]}`)
	}))
	defer server.Close()

	app := createTestApplication(server.URL)

	trendingCmd := app.createTrendingCommand(context.Background())

	output := captureOutput(t, func() {
		trendingCmd.SetArgs([]string{})
		if err := trendingCmd.Execute(); err != nil {
			t.Errorf("Ошибка выполнения команды trending: %v", err)
		}
	})

	if !strings.Contains(output, "Chart Artist") || !strings.Contains(output, "Chart Track") {
		t.Errorf("Команда trending не отобразила треки чарта: %s", output)
	}
}

// TestCmdPlayInvalidNumber проверяет обработку неверного номера трека
func TestCmdPlayInvalidNumber(t *testing.T) {
	app := createTestApplication("https://api.example.com")

	playCmd := app.createPlayCommand(context.Background())
	playCmd.SetOut(io.Discard)
	playCmd.SetErr(io.Discard)
	playCmd.SetArgs([]string{"invalid"})

	if err := playCmd.Execute(); err == nil {
		t.Error("Ожидалась ошибка при неверном номере трека")
	}
}

// TestCmdPlayEmptyFavorites проверяет, что воспроизведение из пустого избранного возвращает ошибку
func TestCmdPlayEmptyFavorites(t *testing.T) {
	app := createTestApplication("https://api.example.com")

	playCmd := app.createPlayCommand(context.Background())
	playCmd.SetOut(io.Discard)
	playCmd.SetErr(io.Discard)
	playCmd.SetArgs([]string{"1"})

	err := playCmd.Execute()
	if err == nil {
		t.Fatal("Ожидалась ошибка при пустом избранном")
	}
	if !strings.Contains(err.Error(), "список пуст") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

// TestCmdPlayOutOfRange проверяет обработку номера за пределами списка
func TestCmdPlayOutOfRange(t *testing.T) {
	app := createTestApplication("https://api.example.com")

	if _, err := app.Library.ToggleFavorite(testTrack(1, "Artist", "Title")); err != nil {
		t.Fatalf("Ошибка добавления в избранное: %v", err)
	}

	playCmd := app.createPlayCommand(context.Background())
	playCmd.SetOut(io.Discard)
	playCmd.SetErr(io.Discard)
	playCmd.SetArgs([]string{"5"})

	err := playCmd.Execute()
	if err == nil {
		t.Fatal("Ожидалась ошибка при номере за пределами списка")
	}
	if !strings.Contains(err.Error(), "неверный номер трека") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}

// TestCmdBackupWithoutBucket проверяет, что backup без настроенного бакета возвращает ошибку
func TestCmdBackupWithoutBucket(t *testing.T) {
	app := createTestApplication("https://api.example.com")

	backupCmd := app.createBackupCommand(context.Background())
	backupCmd.SetOut(io.Discard)
	backupCmd.SetErr(io.Discard)
	backupCmd.SetArgs([]string{})

	err := backupCmd.Execute()
	if err == nil {
		t.Fatal("Ожидалась ошибка при отсутствии настроек S3")
	}
	if !strings.Contains(err.Error(), "бакет S3 не настроен") {
		t.Errorf("Неожиданное сообщение об ошибке: %v", err)
	}
}
