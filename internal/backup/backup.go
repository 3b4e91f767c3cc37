// Package backup отвечает за резервное копирование библиотеки пользователя в S3
package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hazadus/go-digger/internal/data"
)

// Uploader описывает минимальный интерфейс загрузчика файлов
type Uploader interface {
	UploadFile(ctx context.Context, reader io.Reader, key string) (string, error)
}

// Service управляет процессом резервного копирования
type Service struct {
	uploader Uploader
	library  *data.Library
	now      func() time.Time
}

// NewService создает новый сервис резервного копирования
func NewService(uploader Uploader, library *data.Library) *Service {
	return &Service{
		uploader: uploader,
		library:  library,
		now:      time.Now,
	}
}

// Result содержит результат резервного копирования
type Result struct {
	FavoritesURL  string
	RecentURL     string
	FavoritesSize int64
	RecentSize    int64
}

// Run выгружает обе коллекции библиотеки в хранилище.
// Каждый снимок получает временную метку в имени, чтобы
// свежая копия не затирала предыдущую.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	favorites, recent, err := s.library.Export()
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации библиотеки: %w", err)
	}

	stamp := s.now().UTC().Format("2006-01-02T15-04-05")

	favoritesURL, err := s.uploader.UploadFile(ctx, bytes.NewReader(favorites), fmt.Sprintf("favorites-%s.json", stamp))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки избранного: %w", err)
	}

	recentURL, err := s.uploader.UploadFile(ctx, bytes.NewReader(recent), fmt.Sprintf("recent-%s.json", stamp))
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки истории: %w", err)
	}

	return &Result{
		FavoritesURL:  favoritesURL,
		RecentURL:     recentURL,
		FavoritesSize: int64(len(favorites)),
		RecentSize:    int64(len(recent)),
	}, nil
}

// FormatFileSize форматирует размер файла в читаемом виде
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
