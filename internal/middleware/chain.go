package middleware

import "net/http"

// Chain wraps h with stages so that they run in the order given: the first
// stage sees every request first and the last one sits directly in front of h.
func Chain(h http.Handler, stages ...func(http.Handler) http.Handler) http.Handler {
	for i := len(stages) - 1; i >= 0; i-- {
		h = stages[i](h)
	}
	return h
}
