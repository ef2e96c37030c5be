package worker

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"newsmark/internal/bookmark"
	"newsmark/internal/model"
	"newsmark/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// slowKV widens the gap between read and write so unserialized
// read-modify-write cycles would overlap.
type slowKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (s *slowKV) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	val, ok := s.data[key]
	s.mu.Unlock()
	time.Sleep(2 * time.Millisecond)
	if !ok {
		return "", store.ErrNotFound
	}
	return val, nil
}

func (s *slowKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *slowKV) Close() error { return nil }

func startWriter(t *testing.T, kv store.KV) *Writer {
	t.Helper()
	st := bookmark.New(kv, "@test:bookmarks", zap.NewNop())
	w := NewWriter(st, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	t.Cleanup(cancel)
	return w
}

func TestWriter_ConcurrentAddsAllSurvive(t *testing.T) {
	w := startWriter(t, &slowKV{data: map[string]string{}})
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := fmt.Sprintf("https://news.example/%d", i)
			assert.NoError(t, w.Add(ctx, model.Article{URL: url, Title: url}))
		}(i)
	}
	wg.Wait()

	got, err := w.List(ctx)
	require.NoError(t, err)
	assert.Len(t, got, n)
}

func TestWriter_ConcurrentTogglesOfSameArticle(t *testing.T) {
	w := startWriter(t, &slowKV{data: map[string]string{}})
	ctx := context.Background()
	a := model.Article{URL: "https://news.example/t"}

	// an even number of toggles ends where it started
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.Toggle(ctx, a)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	ok, err := w.IsBookmarked(ctx, a.URL)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWriter_AddRemoveWithRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	kv, err := store.NewRedis(mr.Addr())
	require.NoError(t, err)
	defer kv.Close()

	w := startWriter(t, kv)
	ctx := context.Background()

	require.NoError(t, w.Add(ctx, model.Article{URL: "u1"}))
	require.NoError(t, w.Add(ctx, model.Article{URL: "u2"}))
	require.NoError(t, w.Remove(ctx, "u1"))

	got, err := w.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "u2", got[0].URL)

	on, err := w.Toggle(ctx, model.Article{URL: "u1"})
	require.NoError(t, err)
	assert.True(t, on)
}

func TestWriter_EmptyURL(t *testing.T) {
	w := startWriter(t, &slowKV{data: map[string]string{}})

	assert.ErrorIs(t, w.Add(context.Background(), model.Article{}), bookmark.ErrEmptyURL)
	_, err := w.Toggle(context.Background(), model.Article{})
	assert.ErrorIs(t, err, bookmark.ErrEmptyURL)
}

func TestWriter_StoppedRejectsMutations(t *testing.T) {
	st := bookmark.New(&slowKV{data: map[string]string{}}, "@test:bookmarks", zap.NewNop())
	w := NewWriter(st, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	err := w.Add(context.Background(), model.Article{URL: "u1"})
	assert.ErrorIs(t, err, ErrWriterStopped)

	// reads still work without the loop
	got, err := w.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWriter_CallerContextCancelled(t *testing.T) {
	st := bookmark.New(&slowKV{data: map[string]string{}}, "@test:bookmarks", zap.NewNop())
	w := NewWriter(st, zap.NewNop()) // never started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := w.Remove(ctx, "u1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
