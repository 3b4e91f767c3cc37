// Package config содержит функции для загрузки конфигурации приложения
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Значения по умолчанию для каталога и хранилища
const (
	DefaultAPIURL  = "https://api.deezer.com"
	DefaultDataDir = "~/.digger-data"
	DefaultVolume  = 0.8
)

// Config структура для хранения конфигурации приложения
type Config struct {
	APIURL         string  `yaml:"api_url"`          // Базовый URL каталога
	FallbackAPIURL string  `yaml:"fallback_api_url"` // Запасной URL каталога (одна повторная попытка)
	DataDir        string  `yaml:"data_dir"`         // Директория хранилища избранного и истории
	Volume         float64 `yaml:"volume"`           // Громкость по умолчанию, от 0 до 1
	AwsBucketName  string  `yaml:"aws_bucket_name"`
	AwsAccessKey   string  `yaml:"aws_access_key"`
	AwsSecretKey   string  `yaml:"aws_secret_key"`
	AwsRegion      string  `yaml:"aws_region"`
	AwsEndpoint    string  `yaml:"aws_endpoint"`
}

// LoadConfig загружает конфигурацию приложения из указанного файла.
// Отсутствующий файл не является ошибкой: возвращается конфигурация по умолчанию.
func LoadConfig(filePath string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := strings.Replace(filePath, "~", home, 1)

	config := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			config.DataDir = strings.Replace(config.DataDir, "~", home, 1)
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("ошибка разбора конфигурации: %w", err)
	}

	// Подставляем значения по умолчанию, если они не заданы
	if config.APIURL == "" {
		config.APIURL = DefaultAPIURL
	}
	if config.DataDir == "" {
		config.DataDir = DefaultDataDir
	}
	if config.Volume <= 0 || config.Volume > 1 {
		config.Volume = DefaultVolume
	}

	// Раскрываем тильду в пути хранилища
	config.DataDir = strings.Replace(config.DataDir, "~", home, 1)

	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		APIURL:  DefaultAPIURL,
		DataDir: DefaultDataDir,
		Volume:  DefaultVolume,
	}
}
