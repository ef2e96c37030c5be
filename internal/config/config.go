package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendRedis  = "redis"
	BackendBadger = "badger"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// DefaultBookmarksKey is the storage key the bookmark collection lives under.
const DefaultBookmarksKey = "@GryNowNews:bookmarks"

type Config struct {
	Storage StorageConfig `yaml:"storage"`
	NewsAPI NewsAPIConfig `yaml:"newsapi"`
	Server  ServerConfig  `yaml:"server"`
	Reader  ReaderConfig  `yaml:"reader"`
	Log     LogConfig     `yaml:"log"`
}

type StorageConfig struct {
	Backend      string `yaml:"backend"`
	BookmarksKey string `yaml:"bookmarks_key"`
	RedisAddr    string `yaml:"redis_addr"`
	// Path is a directory for badger and a file for bolt and sqlite.
	Path string `yaml:"path"`
}

type NewsAPIConfig struct {
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Country  string        `yaml:"country"`
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type ReaderConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	CacheSize int           `yaml:"cache_size"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

type LogConfig struct {
	Level      string `yaml:"level"`
	Dev        bool   `yaml:"dev"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend:      BackendBadger,
			BookmarksKey: DefaultBookmarksKey,
			RedisAddr:    "localhost:6379",
			Path:         "./newsmark-data",
		},
		NewsAPI: NewsAPIConfig{
			BaseURL:  "https://newsapi.org/v2",
			Country:  "us",
			PageSize: 5,
			Timeout:  15 * time.Second,
		},
		Server: ServerConfig{Addr: ":8080"},
		Reader: ReaderConfig{
			Timeout:   30 * time.Second,
			CacheSize: 100,
			CacheTTL:  time.Hour,
		},
		Log: LogConfig{
			Level:      "info",
			Dev:        true,
			MaxSizeMB:  10,
			MaxAgeDays: 7,
			MaxBackups: 3,
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
// An empty path returns the defaults. NEWSAPI_KEY fills a missing api key.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		cfg.applyDefaults()
	}

	if cfg.NewsAPI.APIKey == "" {
		cfg.NewsAPI.APIKey = os.Getenv("NEWSAPI_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDefaults fills zero values left by a partial file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.BookmarksKey == "" {
		c.Storage.BookmarksKey = d.Storage.BookmarksKey
	}
	if c.Storage.RedisAddr == "" {
		c.Storage.RedisAddr = d.Storage.RedisAddr
	}
	if c.Storage.Path == "" {
		c.Storage.Path = d.Storage.Path
	}
	if c.NewsAPI.BaseURL == "" {
		c.NewsAPI.BaseURL = d.NewsAPI.BaseURL
	}
	if c.NewsAPI.Country == "" {
		c.NewsAPI.Country = d.NewsAPI.Country
	}
	if c.NewsAPI.PageSize <= 0 {
		c.NewsAPI.PageSize = d.NewsAPI.PageSize
	}
	if c.NewsAPI.Timeout <= 0 {
		c.NewsAPI.Timeout = d.NewsAPI.Timeout
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Reader.Timeout <= 0 {
		c.Reader.Timeout = d.Reader.Timeout
	}
	if c.Reader.CacheSize <= 0 {
		c.Reader.CacheSize = d.Reader.CacheSize
	}
	if c.Reader.CacheTTL <= 0 {
		c.Reader.CacheTTL = d.Reader.CacheTTL
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = d.Log.MaxSizeMB
	}
	if c.Log.MaxAgeDays <= 0 {
		c.Log.MaxAgeDays = d.Log.MaxAgeDays
	}
	if c.Log.MaxBackups <= 0 {
		c.Log.MaxBackups = d.Log.MaxBackups
	}
}

var ErrUnknownBackend = errors.New("unknown storage backend")

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendRedis, BackendBadger, BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}
	if c.Storage.BookmarksKey == "" {
		return errors.New("storage.bookmarks_key must not be empty")
	}
	return nil
}
