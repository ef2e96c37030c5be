package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const badgerGCInterval = 5 * time.Minute

// Badger keeps values in an embedded BadgerDB.
type Badger struct {
	db   *badger.DB
	stop chan struct{}
	done chan struct{}

	closeOnce sync.Once
	closeErr  error
}

// NewBadger opens (or creates) the database at path.
// An empty path runs Badger fully in memory.
func NewBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Silence default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}
	s := &Badger{db: db, stop: make(chan struct{}), done: make(chan struct{})}
	if path == "" {
		close(s.done) // value log GC does not apply in memory
	} else {
		go s.gcLoop(badgerGCInterval)
	}
	return s, nil
}

// gcLoop reclaims value log space left behind by rewrites of the same key.
func (s *Badger) gcLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			for s.db.RunValueLogGC(0.7) == nil {
			}
		}
	}
}

func (s *Badger) Get(_ context.Context, key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	} else if err != nil {
		return "", fmt.Errorf("badger get %s: %w", key, err)
	}
	return value, nil
}

func (s *Badger) Set(_ context.Context, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("badger set %s: %w", key, err)
	}
	return nil
}

// Close stops the GC loop and closes the database. Later calls are no-ops.
func (s *Badger) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
		<-s.done
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}
