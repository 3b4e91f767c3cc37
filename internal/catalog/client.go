// Package catalog содержит клиент публичного каталога музыки
// (поиск треков и чарт с URL 30-секундных превью)
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hazadus/go-digger/internal/data"
)

// Лимиты выдачи каталога
const (
	SearchLimit   = 12 // Максимум треков в результатах поиска
	TrendingLimit = 10 // Максимум треков в чарте
)

// Client клиент каталога. При недоступности основного адреса выполняется
// одна повторная попытка через запасной адрес, без цикла повторов.
type Client struct {
	HTTP        *http.Client
	BaseURL     string
	FallbackURL string
}

// NewClient создает клиент каталога
func NewClient(baseURL, fallbackURL string) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		BaseURL:     baseURL,
		FallbackURL: fallbackURL,
	}
}

// trackRecord структура записи трека в ответе каталога
type trackRecord struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Duration int    `json:"duration"`
	Preview  string `json:"preview"`
	Artist   struct {
		Name string `json:"name"`
	} `json:"artist"`
	Album struct {
		Title       string `json:"title"`
		CoverSmall  string `json:"cover_small"`
		CoverMedium string `json:"cover_medium"`
		CoverBig    string `json:"cover_big"`
	} `json:"album"`
}

// listResponse обертка списка треков в ответе каталога
type listResponse struct {
	Data []trackRecord `json:"data"`
}

// Search ищет треки по строке запроса. Возвращает не более SearchLimit треков.
// Пустой запрос (или запрос из одних пробелов) — тихий no-op без похода в сеть.
func (c *Client) Search(ctx context.Context, query string) ([]data.Track, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(SearchLimit)},
	}
	tracks, err := c.fetchList(ctx, "/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска в каталоге: %w", err)
	}

	if len(tracks) > SearchLimit {
		tracks = tracks[:SearchLimit]
	}
	return tracks, nil
}

// Trending возвращает треки из чарта каталога, не более TrendingLimit
func (c *Client) Trending(ctx context.Context) ([]data.Track, error) {
	params := url.Values{
		"limit": {strconv.Itoa(TrendingLimit)},
	}
	tracks, err := c.fetchList(ctx, "/chart/0/tracks?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки чарта: %w", err)
	}

	if len(tracks) > TrendingLimit {
		tracks = tracks[:TrendingLimit]
	}
	return tracks, nil
}

// fetchList выполняет запрос к каталогу; при ошибке основного адреса
// делает одну повторную попытку через запасной адрес
func (c *Client) fetchList(ctx context.Context, path string) ([]data.Track, error) {
	tracks, err := c.fetchFrom(ctx, c.BaseURL, path)
	if err == nil {
		return tracks, nil
	}

	// Отмененный запрос не повторяем: его результат уже никому не нужен
	if ctx.Err() != nil {
		return nil, err
	}

	if c.FallbackURL == "" {
		return nil, err
	}
	return c.fetchFrom(ctx, c.FallbackURL, path)
}

// fetchFrom выполняет один запрос к указанному адресу каталога
func (c *Client) fetchFrom(ctx context.Context, baseURL, path string) ([]data.Track, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", "go-digger/1.0")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа каталога: %w", err)
	}

	tracks := make([]data.Track, 0, len(body.Data))
	for _, record := range body.Data {
		tracks = append(tracks, data.Track{
			ID:          record.ID,
			Title:       record.Title,
			Artist:      record.Artist.Name,
			Album:       record.Album.Title,
			CoverSmall:  record.Album.CoverSmall,
			CoverMedium: record.Album.CoverMedium,
			CoverBig:    record.Album.CoverBig,
			PreviewURL:  record.Preview,
			Length:      record.Duration,
		})
	}
	return tracks, nil
}
