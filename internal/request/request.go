package request

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const (
	bodyContextKey      contextKey = "body"
	requestIDContextKey contextKey = "request_id"
)

// ErrMalformedBody is wrapped by every deferred body parse failure.
var ErrMalformedBody = errors.New("malformed request body")

// Body holds the outcome of parsing a request body.
type Body struct {
	// Value is the decoded JSON document, nil when the body was absent or not JSON.
	Value any
	// Raw is the body as read from the wire.
	Raw []byte
	// Err is a deferred parse failure wrapping ErrMalformedBody.
	Err error
}

// ClientIP returns the client identifier used for rate limiting. By default it
// is the host part of the connection's remote address. When trustProxy is set,
// X-Forwarded-For and X-Real-IP are consulted first.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			if first := strings.TrimSpace(parts[0]); first != "" {
				return first
			}
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// WithBody returns a context carrying the parsed body.
func WithBody(ctx context.Context, body *Body) context.Context {
	return context.WithValue(ctx, bodyContextKey, body)
}

// BodyFromContext returns the parsed body, or nil if the body parser did not run.
func BodyFromContext(r *http.Request) *Body {
	b, _ := r.Context().Value(bodyContextKey).(*Body)
	return b
}

// JSONBody returns the decoded JSON body. It returns (nil, nil) when the
// request carried no JSON body and the deferred failure when parsing failed.
func JSONBody(r *http.Request) (any, error) {
	b := BodyFromContext(r)
	if b == nil {
		return nil, nil
	}
	if b.Err != nil {
		return nil, b.Err
	}
	return b.Value, nil
}

// WithRequestID returns a context carrying the request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

// RequestID returns the request ID, or an empty string if none was assigned.
func RequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}
