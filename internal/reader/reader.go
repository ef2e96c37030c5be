package reader

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"newsmark/internal/config"
	"newsmark/internal/model"

	cache "github.com/go-pkgz/expirable-cache/v2"
	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

var ErrInvalidURL = errors.New("invalid article url")

// Scraper defines the interface for downloading web pages.
// This allows us to mock the "Download" step in tests.
type Scraper interface {
	Scrape(url string, timeout time.Duration) (*readability.Article, error)
}

// DefaultScraper is the real implementation that uses the internet
type DefaultScraper struct{}

func (s *DefaultScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	art, err := readability.FromURL(url, timeout)
	return &art, err
}

// Reader extracts the readable body of articles for the detail view.
// Results are kept in an LRU so reopening an article does not refetch it.
type Reader struct {
	scraper Scraper
	timeout time.Duration
	cache   cache.Cache[string, model.ReadableArticle]
	logger  *zap.Logger
}

// New creates a Reader using the DefaultScraper.
func New(cfg config.ReaderConfig, logger *zap.Logger) *Reader {
	return NewWithScraper(cfg, &DefaultScraper{}, logger)
}

// NewWithScraper creates a Reader with a custom Scraper.
func NewWithScraper(cfg config.ReaderConfig, scraper Scraper, logger *zap.Logger) *Reader {
	return &Reader{
		scraper: scraper,
		timeout: cfg.Timeout,
		cache: cache.NewCache[string, model.ReadableArticle]().
			WithLRU().
			WithMaxKeys(cfg.CacheSize).
			WithTTL(cfg.CacheTTL),
		logger: logger,
	}
}

// Read returns the readable version of the article at rawURL.
func (r *Reader) Read(ctx context.Context, rawURL string) (model.ReadableArticle, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return model.ReadableArticle{}, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	if art, ok := r.cache.Get(rawURL); ok {
		return art, nil
	}
	if err := ctx.Err(); err != nil {
		return model.ReadableArticle{}, err
	}

	logger := r.logger.With(zap.String("url", rawURL))
	logger.Info("Downloading")

	parsed, err := r.scraper.Scrape(rawURL, r.timeout)
	if err != nil {
		logger.Error("Scraping failed", zap.Error(err))
		return model.ReadableArticle{}, fmt.Errorf("scrape %s: %w", rawURL, err)
	}

	art := model.ReadableArticle{
		URL:     rawURL,
		Title:   parsed.Title,
		Excerpt: parsed.Excerpt,
		Content: parsed.Content,
	}
	r.cache.Set(rawURL, art, 0)

	logger.Info("Extraction complete", zap.String("title", art.Title))
	return art, nil
}
