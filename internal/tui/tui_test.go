// Package tui содержит тесты для TUI компонентов
package tui

import (
	"testing"

	"github.com/hazadus/go-digger/internal/catalog"
	"github.com/hazadus/go-digger/internal/data"
)

func TestNewApp(t *testing.T) {
	catalogClient := catalog.NewClient("https://api.example.com", "")
	library := data.NewLibrary(data.NewMemoryStore())

	app := NewApp(catalogClient, library, 0.8)

	if app == nil {
		t.Fatal("Expected non-nil app")
	}
	if app.catalog != catalogClient {
		t.Error("Expected catalog client to be stored")
	}
	if app.library != library {
		t.Error("Expected library to be stored")
	}
	if app.volume != 0.8 {
		t.Errorf("Expected volume 0.8, got %f", app.volume)
	}
}
