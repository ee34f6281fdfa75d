package middleware

import (
	"net/http"
	"strconv"
	"time"

	logpkg "github.com/benvon/content-api/internal/logger"
	"github.com/benvon/content-api/internal/ratelimit"
	"go.uber.org/zap"
)

// RateLimit gates requests through l, keyed by clientID. Every response it
// touches carries X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset. Rejected requests get a 429 JSON body with retryAfter and
// a Retry-After header and go no further down the pipeline.
func RateLimit(l *ratelimit.Limiter, clientID func(*http.Request) string, logger *zap.Logger) func(http.Handler) http.Handler {
	return rateLimitWithClock(l, clientID, logger, time.Now)
}

func rateLimitWithClock(l *ratelimit.Limiter, clientID func(*http.Request) string, logger *zap.Logger, now func() time.Time) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := clientID(r)
			d := l.Allow(id, now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("X-RateLimit-Reset", d.ResetTime.UTC().Format(timestampFormat))

			if !d.Allowed {
				retry := d.RetryAfterSeconds()
				h.Set("Retry-After", strconv.Itoa(retry))
				logger.Warn("rate_limit_violation",
					zap.String("client", logpkg.SanitizeString(id, logpkg.MaxHeaderValueLength)),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.Int("retry_after_seconds", retry),
				)
				WriteError(w, r, ErrRateLimitExceeded.WithRetryAfter(retry), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
