package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hazadus/go-digger/internal/catalog"
	"github.com/hazadus/go-digger/internal/config"
	"github.com/hazadus/go-digger/internal/data"
	"github.com/hazadus/go-digger/internal/storage"
)

const (
	defaultConfigPath = "~/.digger"
)

// Application связывает конфигурацию, библиотеку и клиент каталога.
// Команды создаются методами приложения и работают через его поля.
type Application struct {
	Config  *config.Config
	Library *data.Library
	Catalog *catalog.Client
}

func main() {
	// Загружаем конфигурацию
	cfg, err := config.LoadConfig(defaultConfigPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// Открываем хранилище библиотеки
	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Ошибка открытия хранилища: %v", err)
	}

	library := data.NewLibrary(store)
	library.Load()

	app := &Application{
		Config:  cfg,
		Library: library,
		Catalog: catalog.NewClient(cfg.APIURL, cfg.FallbackAPIURL),
	}

	// Контекст отменяется по Ctrl+C или SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := app.createRootCommand(ctx)
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
