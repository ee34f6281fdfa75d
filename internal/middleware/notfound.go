package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// NotFound answers every request with a 404 JSON error. It is installed as
// the router's fallback for unmatched paths and methods.
func NotFound(logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, ErrRouteNotFound, logger)
	})
}
