package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/benvon/content-api/internal/request"
)

const (
	// DefaultMaxBodyBytes is the default maximum request body size (1MB)
	DefaultMaxBodyBytes int64 = 1 << 20
)

// JSONBody reads the request body, at most maxBytes of it, and decodes it when
// the Content-Type is JSON. The result is stored in the request context for
// handlers (see request.JSONBody). Malformed or oversized bodies never produce
// a response here; they are recorded as a deferred error wrapping
// request.ErrMalformedBody. The raw body stays readable by handlers.
func JSONBody(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || r.Body == http.NoBody {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
			_ = r.Body.Close()

			body := &request.Body{Raw: raw}
			switch {
			case err != nil:
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					body.Err = fmt.Errorf("%w: body exceeds %d bytes", request.ErrMalformedBody, maxBytes)
				} else {
					body.Err = fmt.Errorf("%w: read body: %v", request.ErrMalformedBody, err)
				}
			case len(bytes.TrimSpace(raw)) == 0:
			case isJSONContentType(r.Header.Get("Content-Type")):
				var v any
				if err := json.Unmarshal(raw, &v); err != nil {
					body.Err = fmt.Errorf("%w: %v", request.ErrMalformedBody, err)
				} else {
					body.Value = v
				}
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			next.ServeHTTP(w, r.WithContext(request.WithBody(r.Context(), body)))
		})
	}
}

// isJSONContentType accepts application/json and any +json media type
func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
