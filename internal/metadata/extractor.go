// Package metadata предоставляет функционал для извлечения метаданных из аудио файлов
package metadata

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
	"github.com/gopxl/beep/mp3"

	"github.com/hazadus/go-digger/internal/data"
)

// TrackMetadata хранит метаданные трека
type TrackMetadata struct {
	Artist string
	Title  string
	Album  string
}

// Extractor извлекает метаданные из аудио файлов
type Extractor struct{}

// NewExtractor создает новый экстрактор метаданных
func NewExtractor() *Extractor {
	return &Extractor{}
}

// TrackFromFile строит запись трека для локального MP3 файла.
// Идентификатор выводится из пути файла, чтобы локальные треки
// корректно участвовали в избранном и истории прослушиваний.
func (e *Extractor) TrackFromFile(filePath string) (data.Track, error) {
	if _, err := os.Stat(filePath); err != nil {
		return data.Track{}, fmt.Errorf("файл не найден: %w", err)
	}

	meta := e.ExtractFromFile(filePath)

	track := data.Track{
		ID:         localTrackID(filePath),
		Title:      meta.Title,
		Artist:     meta.Artist,
		Album:      meta.Album,
		PreviewURL: filePath,
	}

	// Длительность не обязательна: без нее прогресс просто считается по декодеру
	if duration, err := e.GetDuration(filePath); err == nil {
		track.Length = int(duration.Seconds())
	}

	return track, nil
}

// ExtractFromReader извлекает метаданные из io.Reader
func (e *Extractor) ExtractFromReader(reader io.ReadSeeker, source string) TrackMetadata {
	// Сбрасываем reader в начало
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return e.getDefaultMetadata(source)
	}

	metadata, err := tag.ReadFrom(reader)
	if err != nil {
		return e.getDefaultMetadata(source)
	}

	meta := TrackMetadata{
		Artist: metadata.Artist(),
		Title:  metadata.Title(),
		Album:  metadata.Album(),
	}

	// Пустые теги дополняем разбором имени файла
	if meta.Artist == "" && meta.Title == "" {
		return e.getDefaultMetadata(source)
	}
	if meta.Title == "" {
		meta.Title = e.getDefaultMetadata(source).Title
	}

	return meta
}

// ExtractFromFile извлекает метаданные из файла
func (e *Extractor) ExtractFromFile(filePath string) TrackMetadata {
	file, err := os.Open(filePath)
	if err != nil {
		return e.getDefaultMetadata(filePath)
	}
	defer file.Close()

	return e.ExtractFromReader(file, filePath)
}

// GetDuration получает длительность MP3 файла
func (e *Extractor) GetDuration(filePath string) (time.Duration, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, fmt.Errorf("ошибка открытия файла: %w", err)
	}
	defer file.Close()

	streamer, format, err := mp3.Decode(file)
	if err != nil {
		return 0, fmt.Errorf("ошибка декодирования MP3: %w", err)
	}
	defer streamer.Close()

	// Вычисляем длительность
	return format.SampleRate.D(streamer.Len()), nil
}

// getDefaultMetadata возвращает метаданные по умолчанию на основе имени файла
func (e *Extractor) getDefaultMetadata(source string) TrackMetadata {
	fileName := filepath.Base(source)
	nameWithoutExt := strings.TrimSuffix(fileName, filepath.Ext(fileName))

	// Пытаемся разобрать имя файла в формате "Artist - Title"
	parts := strings.Split(nameWithoutExt, " - ")
	if len(parts) >= 2 {
		return TrackMetadata{
			Artist: strings.TrimSpace(parts[0]),
			Title:  strings.TrimSpace(strings.Join(parts[1:], " - ")),
			Album:  "",
		}
	}

	// Если не удалось разобрать, используем имя файла как название
	return TrackMetadata{
		Artist: "Unknown Artist",
		Title:  nameWithoutExt,
		Album:  "",
	}
}

// localTrackID выводит стабильный идентификатор из пути файла.
// Знак оставляем отрицательным, чтобы локальные треки не пересекались
// с идентификаторами каталога.
func localTrackID(filePath string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(filePath))

	id := int64(h.Sum64() & 0x7fffffffffffffff)
	if id == 0 {
		id = 1
	}
	return -id
}
