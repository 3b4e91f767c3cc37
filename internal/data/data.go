// Package data содержит модель трека и библиотеку пользователя
// (избранное и история прослушиваний) с записью в хранилище при каждом изменении
package data

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/hazadus/go-digger/internal/storage"
)

// Track описывает один трек каталога. Запись неизменяемая:
// приложение меняет только членство трека в коллекциях, не его поля.
type Track struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	CoverSmall  string `json:"cover_small,omitempty"`
	CoverMedium string `json:"cover_medium,omitempty"`
	CoverBig    string `json:"cover_big,omitempty"`
	PreviewURL  string `json:"preview_url"`
	Length      int    `json:"length,omitempty"` // Длина трека в секундах; может отсутствовать
}

// Ключи хранилища для двух долгоживущих коллекций
const (
	favoritesKey = "favorites"
	recentKey    = "recent"
)

// MaxRecent ограничивает длину истории прослушиваний
const MaxRecent = 10

// Library хранит избранное и историю прослушиваний пользователя.
// Каждая мутация сразу сохраняется в хранилище.
type Library struct {
	mutex     sync.RWMutex
	store     storage.Store
	favorites []Track
	recent    []Track
}

// NewLibrary создает библиотеку поверх указанного хранилища
func NewLibrary(store storage.Store) *Library {
	return &Library{
		store:     store,
		favorites: make([]Track, 0),
		recent:    make([]Track, 0),
	}
}

// Load загружает обе коллекции из хранилища.
// Отсутствующие или поврежденные данные заменяются пустыми коллекциями.
func (l *Library) Load() {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.favorites = l.loadCollection(favoritesKey)
	l.recent = l.loadCollection(recentKey)
}

// loadCollection читает одну коллекцию; любая ошибка деградирует в пустой список
func (l *Library) loadCollection(key string) []Track {
	raw, err := l.store.Read(key)
	if err != nil || len(raw) == 0 {
		return make([]Track, 0)
	}

	var tracks []Track
	if err := json.Unmarshal(raw, &tracks); err != nil {
		// Поврежденные данные не должны ронять приложение
		return make([]Track, 0)
	}
	return tracks
}

// ToggleFavorite добавляет трек в избранное или убирает его, если он уже там.
// Возвращает true, если трек был добавлен.
func (l *Library) ToggleFavorite(track Track) (bool, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for i := range l.favorites {
		if l.favorites[i].ID == track.ID {
			l.favorites = append(l.favorites[:i], l.favorites[i+1:]...)
			return false, l.saveCollection(favoritesKey, l.favorites)
		}
	}

	l.favorites = append(l.favorites, track)
	return true, l.saveCollection(favoritesKey, l.favorites)
}

// IsFavorite проверяет, находится ли трек в избранном
func (l *Library) IsFavorite(id int64) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	for i := range l.favorites {
		if l.favorites[i].ID == id {
			return true
		}
	}
	return false
}

// RecordPlay добавляет трек в начало истории прослушиваний.
// Прежняя запись с тем же ID удаляется, история обрезается до MaxRecent.
func (l *Library) RecordPlay(track Track) error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for i := range l.recent {
		if l.recent[i].ID == track.ID {
			l.recent = append(l.recent[:i], l.recent[i+1:]...)
			break
		}
	}

	l.recent = append([]Track{track}, l.recent...)
	if len(l.recent) > MaxRecent {
		l.recent = l.recent[:MaxRecent]
	}

	return l.saveCollection(recentKey, l.recent)
}

// Favorites возвращает копию списка избранного в порядке добавления
func (l *Library) Favorites() []Track {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	tracks := make([]Track, len(l.favorites))
	copy(tracks, l.favorites)
	return tracks
}

// Recent возвращает копию истории прослушиваний, самые свежие в начале
func (l *Library) Recent() []Track {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	tracks := make([]Track, len(l.recent))
	copy(tracks, l.recent)
	return tracks
}

// Export сериализует обе коллекции для резервного копирования
func (l *Library) Export() (favorites, recent []byte, err error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	favorites, err = json.Marshal(l.favorites)
	if err != nil {
		return nil, nil, err
	}
	recent, err = json.Marshal(l.recent)
	if err != nil {
		return nil, nil, err
	}
	return favorites, recent, nil
}

// saveCollection сериализует коллекцию и пишет её в хранилище
func (l *Library) saveCollection(key string, tracks []Track) error {
	raw, err := json.Marshal(tracks)
	if err != nil {
		return err
	}
	return l.store.Write(key, raw)
}

// memoryStore хранит значения в памяти; используется в тестах
type memoryStore struct {
	values map[string][]byte
}

// NewMemoryStore создает хранилище в памяти
func NewMemoryStore() storage.Store {
	return &memoryStore{values: make(map[string][]byte)}
}

func (s *memoryStore) Read(key string) ([]byte, error) {
	value, ok := s.values[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return value, nil
}

func (s *memoryStore) Write(key string, value []byte) error {
	s.values[key] = value
	return nil
}
