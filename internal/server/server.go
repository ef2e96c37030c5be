package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"newsmark/internal/bookmark"
	"newsmark/internal/feed"
	"newsmark/internal/model"
	"newsmark/internal/reader"
	"newsmark/internal/worker"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// ArticleReader produces the reader view of an article.
type ArticleReader interface {
	Read(ctx context.Context, url string) (model.ReadableArticle, error)
}

type Server struct {
	bookmarks bookmark.Service
	feed      feed.Source
	reader    ArticleReader
	logger    *zap.Logger
	router    *mux.Router
	handler   http.Handler
	server    *http.Server
}

func NewServer(bm bookmark.Service, src feed.Source, rd ArticleReader, logger *zap.Logger) *Server {
	s := &Server{
		bookmarks: bm,
		feed:      src,
		reader:    rd,
		logger:    logger,
		router:    mux.NewRouter(),
	}
	s.routes()
	s.handler = s.requestID(s.instrument(s.router))
	s.server = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/headlines", s.handleHeadlines).Methods("GET")
	api.HandleFunc("/bookmarks", s.handleListBookmarks).Methods("GET")
	api.HandleFunc("/bookmarks", s.handleAddBookmark).Methods("POST")
	api.HandleFunc("/bookmarks", s.handleRemoveBookmark).Methods("DELETE")
	api.HandleFunc("/bookmarks/status", s.handleBookmarkStatus).Methods("GET")
	api.HandleFunc("/bookmarks/toggle", s.handleToggleBookmark).Methods("POST")
	api.HandleFunc("/read", s.handleRead).Methods("GET")

	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
}

// Handler exposes the instrumented router, mostly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Start launches the HTTP server
func (s *Server) Start(addr string) error {
	s.server.Addr = addr
	s.logger.Info("Web server listening", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type headlinesResponse struct {
	model.Headlines
	Page    int  `json:"page"`
	HasMore bool `json:"hasMore"`
}

func (s *Server) handleHeadlines(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			s.writeError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		page = n
	}

	h := s.feed.TopHeadlines(r.Context(), page)
	s.writeJSON(w, http.StatusOK, headlinesResponse{Headlines: h, Page: page, HasMore: feed.HasMore(h)})
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	articles, err := s.bookmarks.List(r.Context())
	if err != nil {
		s.writeBookmarkError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, articles)
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	article, ok := s.decodeArticle(w, r)
	if !ok {
		return
	}
	if err := s.bookmarks.Add(r.Context(), article); err != nil {
		s.writeBookmarkError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	if err := s.bookmarks.Remove(r.Context(), url); err != nil {
		s.writeBookmarkError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type statusResponse struct {
	URL        string `json:"url"`
	Bookmarked bool   `json:"bookmarked"`
}

func (s *Server) handleBookmarkStatus(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		s.writeError(w, http.StatusBadRequest, "url is required")
		return
	}
	ok, err := s.bookmarks.IsBookmarked(r.Context(), url)
	if err != nil {
		s.writeBookmarkError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{URL: url, Bookmarked: ok})
}

func (s *Server) handleToggleBookmark(w http.ResponseWriter, r *http.Request) {
	article, ok := s.decodeArticle(w, r)
	if !ok {
		return
	}
	on, err := s.bookmarks.Toggle(r.Context(), article)
	if err != nil {
		s.writeBookmarkError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{URL: article.URL, Bookmarked: on})
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	art, err := s.reader.Read(r.Context(), r.URL.Query().Get("url"))
	switch {
	case errors.Is(err, reader.ErrInvalidURL):
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.writeError(w, http.StatusBadGateway, "failed to load article")
		return
	}
	s.writeJSON(w, http.StatusOK, art)
}

func (s *Server) decodeArticle(w http.ResponseWriter, r *http.Request) (model.Article, bool) {
	var article model.Article
	if err := json.NewDecoder(r.Body).Decode(&article); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid article json")
		return model.Article{}, false
	}
	if article.URL == "" {
		s.writeError(w, http.StatusBadRequest, bookmark.ErrEmptyURL.Error())
		return model.Article{}, false
	}
	return article, true
}

// writeBookmarkError maps a bookmark outcome to a status. Storage faults are
// 503 so clients can offer a retry.
func (s *Server) writeBookmarkError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookmark.ErrEmptyURL):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case bookmark.IsStorageError(err), errors.Is(err, worker.ErrWriterStopped):
		s.writeError(w, http.StatusServiceUnavailable, "bookmark storage unavailable, try again")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.writeError(w, http.StatusServiceUnavailable, "request cancelled")
	default:
		s.logger.Error("Unexpected bookmark error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}
