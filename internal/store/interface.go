package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("key not found")
)

// KV is a string key-value storage. Values are written and read whole.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
