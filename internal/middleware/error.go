package middleware

import (
	"net/http"

	logpkg "github.com/benvon/content-api/internal/logger"
	"go.uber.org/zap"
)

// ErrorHandler recovers panics raised by the stages it wraps, logs them and
// answers with a generic 500. The panic value never reaches the client. If the
// response had already started, the connection is left as is.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.Error("panic_recovered",
					zap.Any("error", err),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("method", r.Method),
					zap.Bool("response_started", rec.wroteHeader),
				)
				if rec.wroteHeader {
					return
				}
				WriteError(rec, r, ErrHandlerFailure, logger)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
