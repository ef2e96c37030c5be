package bookmark

import (
	"context"
	"errors"
	"sync"

	"newsmark/internal/store"
)

// memKV is an in-process store.KV with switchable faults.
type memKV struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
	setErr error
	sets   int
	onGet  func()
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	hook := m.onGet
	if m.getErr != nil {
		defer m.mu.Unlock()
		return "", m.getErr
	}
	val, ok := m.data[key]
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return "", store.ErrNotFound
	}
	return val, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *memKV) Close() error { return nil }

func (m *memKV) raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

func (m *memKV) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

var errDisk = errors.New("disk unavailable")
