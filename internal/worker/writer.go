package worker

import (
	"context"
	"errors"
	"sync"

	"newsmark/internal/bookmark"
	"newsmark/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrWriterStopped = errors.New("bookmark writer stopped")

var _ bookmark.Service = (*Writer)(nil)

type result struct {
	bookmarked bool
	err        error
}

type job struct {
	id   uuid.UUID
	op   string
	ctx  context.Context
	run  func(ctx context.Context) (bool, error)
	done chan result
}

// Writer is the single owner of bookmark mutations. Add, Remove and Toggle
// are queued and applied one at a time by the loop in Start, so concurrent
// callers cannot overwrite each other's changes. Reads go straight to the
// store: every write replaces the collection whole, so a read sees some
// complete committed state.
type Writer struct {
	store  *bookmark.Store
	logger *zap.Logger

	jobs     chan job
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewWriter creates a Writer over st. Nothing is applied until Start runs.
func NewWriter(st *bookmark.Store, logger *zap.Logger) *Writer {
	return &Writer{
		store:   st,
		logger:  logger,
		jobs:    make(chan job),
		stopped: make(chan struct{}),
	}
}

// Start runs the writer loop until ctx is done.
func (w *Writer) Start(ctx context.Context) {
	w.logger.Info("Bookmark writer started")
	defer w.stopOnce.Do(func() { close(w.stopped) })

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Bookmark writer shutting down")
			return
		case j := <-w.jobs:
			w.process(j)
		}
	}
}

func (w *Writer) process(j job) {
	logger := w.logger.With(zap.String("job_id", j.id.String()), zap.String("op", j.op))

	// caller gave up while the job was queued
	if err := j.ctx.Err(); err != nil {
		logger.Debug("Job dropped", zap.Error(err))
		j.done <- result{err: err}
		return
	}

	bookmarked, err := j.run(j.ctx)
	if err != nil {
		logger.Warn("Job failed", zap.Error(err))
	} else {
		logger.Debug("Job applied", zap.Bool("bookmarked", bookmarked))
	}
	j.done <- result{bookmarked: bookmarked, err: err}
}

func (w *Writer) submit(ctx context.Context, op string, run func(ctx context.Context) (bool, error)) (bool, error) {
	j := job{
		id:   uuid.New(),
		op:   op,
		ctx:  ctx,
		run:  run,
		done: make(chan result, 1),
	}

	select {
	case w.jobs <- j:
	case <-w.stopped:
		return false, ErrWriterStopped
	case <-ctx.Done():
		return false, ctx.Err()
	}

	select {
	case r := <-j.done:
		return r.bookmarked, r.err
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Add queues an add of article and waits for it to be applied.
func (w *Writer) Add(ctx context.Context, article model.Article) error {
	if article.URL == "" {
		return bookmark.ErrEmptyURL
	}
	_, err := w.submit(ctx, "add", func(ctx context.Context) (bool, error) {
		return true, w.store.Add(ctx, article)
	})
	return err
}

// Remove queues a removal of url and waits for it to be applied.
func (w *Writer) Remove(ctx context.Context, url string) error {
	_, err := w.submit(ctx, "remove", func(ctx context.Context) (bool, error) {
		return false, w.store.Remove(ctx, url)
	})
	return err
}

// Toggle flips membership of article as one queued step.
func (w *Writer) Toggle(ctx context.Context, article model.Article) (bool, error) {
	if article.URL == "" {
		return false, bookmark.ErrEmptyURL
	}
	return w.submit(ctx, "toggle", func(ctx context.Context) (bool, error) {
		return w.store.Toggle(ctx, article)
	})
}

func (w *Writer) List(ctx context.Context) ([]model.Article, error) {
	return w.store.List(ctx)
}

func (w *Writer) IsBookmarked(ctx context.Context, url string) (bool, error) {
	return w.store.IsBookmarked(ctx, url)
}
