package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"newsmark/internal/config"
	"newsmark/internal/metrics"
	"newsmark/internal/model"

	"github.com/go-pkgz/requester"
	"github.com/go-pkgz/requester/middleware"
	"go.uber.org/zap"
)

// Source is a paginated headline fetcher.
type Source interface {
	TopHeadlines(ctx context.Context, page int) model.Headlines
}

// NewsAPI fetches top headlines from newsapi.org. Each call is one request:
// no retry, no cache.
type NewsAPI struct {
	cfg    config.NewsAPIConfig
	rq     *requester.Requester
	logger *zap.Logger
}

// NewNewsAPI creates a client for the configured endpoint.
func NewNewsAPI(cfg config.NewsAPIConfig, logger *zap.Logger) *NewsAPI {
	return &NewsAPI{
		cfg: cfg,
		rq: requester.New(
			http.Client{Timeout: cfg.Timeout},
			middleware.JSON,
			LoggingRoundTripper(logger),
		),
		logger: logger,
	}
}

// TopHeadlines returns the requested page. Any failure yields
// model.ErrorHeadlines instead of an error.
func (n *NewsAPI) TopHeadlines(ctx context.Context, page int) model.Headlines {
	if page < 1 {
		page = 1
	}
	logger := n.logger.With(zap.Int("page", page))

	h, err := n.fetch(ctx, page)
	if err != nil {
		logger.Error("Error fetching news", zap.Error(err))
		metrics.FeedFetchesTotal.WithLabelValues(model.StatusError).Inc()
		return model.ErrorHeadlines()
	}

	metrics.FeedFetchesTotal.WithLabelValues(h.Status).Inc()
	logger.Info("Fetched headlines", zap.String("status", h.Status), zap.Int("articles", len(h.Articles)))
	return h
}

func (n *NewsAPI) fetch(ctx context.Context, page int) (model.Headlines, error) {
	q := url.Values{}
	q.Set("country", n.cfg.Country)
	q.Set("apiKey", n.cfg.APIKey)
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(n.cfg.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.cfg.BaseURL+"/top-headlines?"+q.Encode(), nil)
	if err != nil {
		return model.Headlines{}, fmt.Errorf("make request: %w", err)
	}

	resp, err := n.rq.Do(req)
	if err != nil {
		return model.Headlines{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Headlines{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var h model.Headlines
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return model.Headlines{}, fmt.Errorf("decode response: %w", err)
	}
	if h.Articles == nil {
		h.Articles = []model.Article{}
	}
	return h, nil
}

// HasMore reports whether another page may follow h.
func HasMore(h model.Headlines) bool {
	return h.Status == model.StatusOK && len(h.Articles) > 0
}
