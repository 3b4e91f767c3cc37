// Package storage предоставляет простое key-value хранилище на файлах
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store интерфейс key-value хранилища для сериализованных коллекций
type Store interface {
	// Read возвращает значение по ключу; os.ErrNotExist, если ключа нет
	Read(key string) ([]byte, error)
	// Write записывает значение по ключу
	Write(key string, value []byte) error
}

// FileStore хранит каждое значение в отдельном JSON-файле внутри директории
type FileStore struct {
	dir string
}

// NewFileStore создает хранилище в указанной директории.
// Тильда в пути раскрывается в домашнюю директорию пользователя.
func NewFileStore(dir string) (*FileStore, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(dir, "~", home, 1)

	// Создаем директорию, если она не существует
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории хранилища: %w", err)
	}

	return &FileStore{dir: path}, nil
}

// Read читает значение ключа из файла <key>.json
func (s *FileStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ошибка чтения ключа %q: %w", key, err)
	}
	return data, nil
}

// Write записывает значение ключа в файл <key>.json
func (s *FileStore) Write(key string, value []byte) error {
	if err := os.WriteFile(s.filePath(key), value, 0644); err != nil {
		return fmt.Errorf("ошибка записи ключа %q: %w", key, err)
	}
	return nil
}

func (s *FileStore) filePath(key string) string {
	return filepath.Join(s.dir, key+".json")
}
