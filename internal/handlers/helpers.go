package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/benvon/content-api/internal/middleware"
	"go.uber.org/zap"
)

// timestampFormat is ISO-8601 in UTC with millisecond precision
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

func now() string {
	return time.Now().UTC().Format(timestampFormat)
}

// respondJSON sends data as the top-level JSON body. Encoding happens before
// any header is written so a failure can still become a clean 500.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any, logger *zap.Logger) {
	body, err := json.Marshal(data)
	if err != nil {
		middleware.WriteError(w, r, fmt.Errorf("encode response: %w", err), logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		logger.Debug("failed_to_write_response", zap.Error(err), zap.String("path", r.URL.Path))
	}
}
