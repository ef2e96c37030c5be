package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

const kvBktName = "kv"

// Bolt keeps values in a single BoltDB bucket.
type Bolt struct {
	db *bolt.DB
}

// NewBolt opens the database file at path, creating parent dirs and the bucket.
func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("make dir for %s: %w", path, err)
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to make boltdb for %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(kvBktName)); err != nil {
			return fmt.Errorf("create top-level bucket %s: %w", kvBktName, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("make buckets: %w", err)
	}

	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(_ context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bolt.Tx) error {
		bts := tx.Bucket([]byte(kvBktName)).Get([]byte(key))
		if bts == nil {
			return ErrNotFound
		}
		value = string(bts)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("view storage: %w", err)
	}
	return value, nil
}

func (b *Bolt) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket([]byte(kvBktName)).Put([]byte(key), []byte(value)); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update storage: %w", err)
	}
	return nil
}

func (b *Bolt) Close() error { return b.db.Close() }
