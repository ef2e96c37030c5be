package feed

import (
	"net/http"
	"time"

	"github.com/go-pkgz/requester/middleware"
	"go.uber.org/zap"
)

// LoggingRoundTripper logs every outgoing request with its status and latency.
// The query string is dropped because it carries the api key.
func LoggingRoundTripper(logger *zap.Logger) middleware.RoundTripperHandler {
	return func(next http.RoundTripper) http.RoundTripper {
		return middleware.RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("host", req.URL.Host),
				zap.String("path", req.URL.Path),
				zap.Duration("elapsed", time.Since(start)),
			}
			if err != nil {
				logger.Warn("Request failed", append(fields, zap.Error(err))...)
				return resp, err
			}
			logger.Debug("Response received", append(fields, zap.Int("status", resp.StatusCode))...)
			return resp, nil
		})
	}
}
