package bookmark

import (
	"context"
	"encoding/json"
	"errors"

	"newsmark/internal/metrics"
	"newsmark/internal/model"
	"newsmark/internal/store"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Service is the set of bookmark operations the presentation layer uses.
type Service interface {
	List(ctx context.Context) ([]model.Article, error)
	Add(ctx context.Context, article model.Article) error
	Remove(ctx context.Context, url string) error
	IsBookmarked(ctx context.Context, url string) (bool, error)
	Toggle(ctx context.Context, article model.Article) (bool, error)
}

var _ Service = (*Store)(nil)

// Store keeps the bookmark collection as one JSON array under a single key.
//
// Every mutation reads the whole collection, changes it in memory and
// writes it back. Nothing guards that sequence: two mutations running at the
// same time can both read the same state and the later write drops the
// other's change. Route mutations through worker.Writer when callers are
// concurrent.
//
// Failures never panic. Each method returns its safe default (empty list,
// false, no change) together with an *Error describing the fault.
type Store struct {
	kv     store.KV
	key    string
	logger *zap.Logger
}

// New creates a Store over kv that owns key.
func New(kv store.KV, key string, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		key:    key,
		logger: logger.With(zap.String("key", key)),
	}
}

// List returns the bookmarks in insertion order.
func (s *Store) List(ctx context.Context) ([]model.Article, error) {
	articles, err := s.load(ctx, "list")
	metrics.RecordBookmarkOp("list", err)
	if err != nil {
		return []model.Article{}, err
	}
	return articles, nil
}

// Add appends article unless one with the same url is already stored.
func (s *Store) Add(ctx context.Context, article model.Article) error {
	err := s.add(ctx, article)
	metrics.RecordBookmarkOp("add", err)
	return err
}

func (s *Store) add(ctx context.Context, article model.Article) error {
	if article.URL == "" {
		return ErrEmptyURL
	}

	articles, err := s.loadForWrite(ctx, "add")
	if err != nil {
		return err
	}
	return s.appendAndSave(ctx, "add", articles, article)
}

func (s *Store) appendAndSave(ctx context.Context, op string, articles []model.Article, article model.Article) error {
	if contains(articles, article.URL) {
		return nil
	}
	return s.save(ctx, op, append(articles, article.Clone()))
}

// Remove drops every bookmark with url. The collection is rewritten even
// when nothing matched.
func (s *Store) Remove(ctx context.Context, url string) error {
	err := s.remove(ctx, url)
	metrics.RecordBookmarkOp("remove", err)
	return err
}

func (s *Store) remove(ctx context.Context, url string) error {
	articles, err := s.loadForWrite(ctx, "remove")
	if err != nil {
		return err
	}
	return s.filterAndSave(ctx, "remove", articles, url)
}

func (s *Store) filterAndSave(ctx context.Context, op string, articles []model.Article, url string) error {
	kept := lo.Filter(articles, func(a model.Article, _ int) bool {
		return a.URL != url
	})
	return s.save(ctx, op, kept)
}

// IsBookmarked reports whether url is in the collection.
func (s *Store) IsBookmarked(ctx context.Context, url string) (bool, error) {
	articles, err := s.load(ctx, "is_bookmarked")
	metrics.RecordBookmarkOp("is_bookmarked", err)
	if err != nil {
		return false, err
	}
	return contains(articles, url), nil
}

// Toggle removes article when it is bookmarked and adds it otherwise.
// It returns the membership after the change; on failure the membership
// observed before the change.
func (s *Store) Toggle(ctx context.Context, article model.Article) (bool, error) {
	if article.URL == "" {
		return false, ErrEmptyURL
	}

	on, err := s.toggle(ctx, article)
	metrics.RecordBookmarkOp("toggle", err)
	return on, err
}

func (s *Store) toggle(ctx context.Context, article model.Article) (bool, error) {
	articles, err := s.loadForWrite(ctx, "toggle")
	if err != nil {
		return false, err
	}
	if contains(articles, article.URL) {
		if err := s.filterAndSave(ctx, "toggle", articles, article.URL); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.appendAndSave(ctx, "toggle", articles, article); err != nil {
		return false, err
	}
	return true, nil
}

// loadForWrite is load for mutations. A value that cannot be decoded is
// replaced by the next write, starting from an empty collection. Read
// failures still abort: the stored value may be intact.
func (s *Store) loadForWrite(ctx context.Context, op string) ([]model.Article, error) {
	articles, err := s.load(ctx, op)
	var bErr *Error
	if errors.As(err, &bErr) && bErr.Kind == KindDecode {
		s.logger.Warn("Discarding malformed bookmarks", zap.String("op", op))
		return []model.Article{}, nil
	}
	return articles, err
}

func (s *Store) load(ctx context.Context, op string) ([]model.Article, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, store.ErrNotFound) {
		return []model.Article{}, nil
	}
	if err != nil {
		s.logger.Error("Failed to read bookmarks", zap.String("op", op), zap.Error(err))
		return nil, &Error{Op: op, Kind: KindRead, Err: err}
	}

	var articles []model.Article
	if err := json.Unmarshal([]byte(raw), &articles); err != nil {
		s.logger.Error("Stored bookmarks are malformed", zap.String("op", op), zap.Error(err))
		return nil, &Error{Op: op, Kind: KindDecode, Err: err}
	}
	if articles == nil {
		articles = []model.Article{}
	}
	return articles, nil
}

func (s *Store) save(ctx context.Context, op string, articles []model.Article) error {
	if articles == nil {
		articles = []model.Article{}
	}
	data, err := json.Marshal(articles)
	if err != nil {
		s.logger.Error("Failed to encode bookmarks", zap.String("op", op), zap.Error(err))
		return &Error{Op: op, Kind: KindEncode, Err: err}
	}

	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Error("Failed to write bookmarks", zap.String("op", op), zap.Error(err))
		return &Error{Op: op, Kind: KindWrite, Err: err}
	}

	s.logger.Debug("Bookmarks written", zap.String("op", op), zap.Int("count", len(articles)))
	return nil
}

func contains(articles []model.Article, url string) bool {
	return lo.ContainsBy(articles, func(a model.Article) bool {
		return a.URL == url
	})
}
