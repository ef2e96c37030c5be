package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsmark/internal/config"
	"newsmark/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const pageBody = `{
  "status": "ok",
  "totalResults": 7,
  "articles": [
    {
      "source": {"id": null, "name": "Example Times"},
      "author": "Jane Roe",
      "title": "Headline one",
      "description": null,
      "url": "https://news.example/1",
      "urlToImage": null,
      "publishedAt": "2024-05-01T10:00:00Z",
      "content": "Body"
    }
  ]
}`

func newClient(baseURL string) *NewsAPI {
	cfg := config.Default().NewsAPI
	cfg.BaseURL = baseURL
	cfg.APIKey = "secret"
	cfg.Timeout = time.Second
	return NewNewsAPI(cfg, zap.NewNop())
}

func TestTopHeadlines_OK(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pageBody))
	}))
	defer ts.Close()

	h := newClient(ts.URL).TopHeadlines(context.Background(), 2)

	require.NotNil(t, got)
	assert.Equal(t, "/top-headlines", got.URL.Path)
	assert.Equal(t, "us", got.URL.Query().Get("country"))
	assert.Equal(t, "secret", got.URL.Query().Get("apiKey"))
	assert.Equal(t, "2", got.URL.Query().Get("page"))
	assert.Equal(t, "5", got.URL.Query().Get("pageSize"))

	assert.Equal(t, model.StatusOK, h.Status)
	assert.Equal(t, 7, h.TotalResults)
	require.Len(t, h.Articles, 1)
	a := h.Articles[0]
	assert.Equal(t, "https://news.example/1", a.URL)
	assert.Nil(t, a.Source.ID)
	assert.Equal(t, "Example Times", a.Source.Name)
	require.NotNil(t, a.Author)
	assert.Equal(t, "Jane Roe", *a.Author)
	assert.Nil(t, a.Description)
	assert.True(t, HasMore(h))
}

func TestTopHeadlines_PageBelowOne(t *testing.T) {
	var page string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page = r.URL.Query().Get("page")
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	}))
	defer ts.Close()

	h := newClient(ts.URL).TopHeadlines(context.Background(), 0)
	assert.Equal(t, "1", page)
	assert.False(t, HasMore(h))
}

func TestTopHeadlines_ErrorSentinel(t *testing.T) {
	tbl := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"unauthorized", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid"}`))
		}},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":`))
		}},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(tt.handler)
			defer ts.Close()

			h := newClient(ts.URL).TopHeadlines(context.Background(), 1)
			assert.Equal(t, model.ErrorHeadlines(), h)
			assert.NotNil(t, h.Articles)
			assert.False(t, HasMore(h))
		})
	}
}

func TestTopHeadlines_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	h := newClient(url).TopHeadlines(context.Background(), 1)
	assert.Equal(t, model.StatusError, h.Status)
	assert.Empty(t, h.Articles)
}
