package middleware

import (
	"net/http"
	"time"

	logpkg "github.com/benvon/content-api/internal/logger"
	"github.com/benvon/content-api/internal/request"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader is read to correlate log lines with an upstream request ID
const RequestIDHeader = "X-Request-ID"

// Logging records every request that reaches it: one line on arrival with the
// method and path, one on completion with status and duration. It never
// modifies the response.
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := logpkg.SanitizeString(r.Header.Get(RequestIDHeader), logpkg.MaxHeaderValueLength)
			if id == "" {
				id = uuid.NewString()
			}
			r = r.WithContext(request.WithRequestID(r.Context(), id))
			path := logpkg.SanitizePath(r.URL.Path)

			logger.Info("http_request",
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", path),
			)

			wrapped := newStatusRecorder(w)
			next.ServeHTTP(wrapped, r)

			logger.Info("http_response",
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", path),
				zap.Int("status_code", wrapped.statusCode),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}
