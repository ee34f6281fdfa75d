package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	logpkg "github.com/benvon/content-api/internal/logger"
	"github.com/benvon/content-api/internal/request"
	"go.uber.org/zap"
)

// timestampFormat is ISO-8601 in UTC with millisecond precision
const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// APIError is a client-facing failure. Title and Message are safe to send to
// callers; internal causes are logged, never attached.
type APIError struct {
	Status     int
	Title      string
	Message    string
	RetryAfter int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Message)
}

// WithRetryAfter returns a copy of e carrying a retry-after value in seconds.
func (e *APIError) WithRetryAfter(seconds int) *APIError {
	c := *e
	c.RetryAfter = seconds
	return &c
}

var (
	// ErrRateLimitExceeded is returned when a client's window quota is exhausted
	ErrRateLimitExceeded = &APIError{
		Status:  http.StatusTooManyRequests,
		Title:   "Too Many Requests",
		Message: "Too many requests, please try again later.",
	}
	// ErrRouteNotFound is returned when no handler matches method and path
	ErrRouteNotFound = &APIError{
		Status:  http.StatusNotFound,
		Title:   "Not Found",
		Message: "The requested resource was not found",
	}
	// ErrHandlerFailure is returned for any internal failure
	ErrHandlerFailure = &APIError{
		Status:  http.StatusInternalServerError,
		Title:   "Internal Server Error",
		Message: "An unexpected error occurred",
	}
	// ErrMalformedRequestBody is returned by handlers that need a body the parser rejected
	ErrMalformedRequestBody = &APIError{
		Status:  http.StatusBadRequest,
		Title:   "Bad Request",
		Message: "Request body is not valid JSON",
	}
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	RetryAfter int    `json:"retryAfter,omitempty"`
}

// WriteError sends err as a JSON error response. A deferred body parse failure
// maps to ErrMalformedRequestBody; anything that is not an *APIError is logged
// and reported as ErrHandlerFailure.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.Is(err, request.ErrMalformedBody):
		apiErr = ErrMalformedRequestBody
	default:
		if logger != nil {
			logger.Error("unhandled_error",
				zap.String("error", logpkg.SanitizeError(err)),
				zap.String("path", logpkg.SanitizePath(r.URL.Path)),
				zap.String("method", r.Method),
			)
		}
		apiErr = ErrHandlerFailure
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)

	response := ErrorResponse{
		Error:      apiErr.Title,
		Message:    apiErr.Message,
		Timestamp:  time.Now().UTC().Format(timestampFormat),
		Path:       r.URL.Path,
		RetryAfter: apiErr.RetryAfter,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil && logger != nil {
		logger.Error("failed_to_encode_error_response",
			zap.Error(err),
			zap.Int("status_code", apiErr.Status),
			zap.String("path", r.URL.Path),
		)
	}
}
