package store

import (
	"fmt"

	"newsmark/internal/config"
)

// Open builds the backend named by cfg.Backend.
func Open(cfg config.StorageConfig) (KV, error) {
	switch cfg.Backend {
	case config.BackendRedis:
		return NewRedis(cfg.RedisAddr)
	case config.BackendBadger:
		return NewBadger(cfg.Path)
	case config.BackendBolt:
		return NewBolt(cfg.Path)
	case config.BackendSQLite:
		return NewSQLite(cfg.Path)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Backend)
	}
}
