package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// BookmarkOperationsTotal counts bookmark store calls by outcome.
	BookmarkOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookmark_operations_total",
			Help: "Total number of bookmark store operations",
		},
		[]string{"op", "status"},
	)

	FeedFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feed_fetches_total",
			Help: "Total number of top-headlines fetches",
		},
		[]string{"status"},
	)
)

// RecordBookmarkOp counts one bookmark operation.
func RecordBookmarkOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	BookmarkOperationsTotal.WithLabelValues(op, status).Inc()
}
