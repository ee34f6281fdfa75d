package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

const (
	corsAllowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	corsAllowHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization"
)

// CORS sets the CORS headers on every response and answers OPTIONS requests
// itself with 200 and an empty body, so preflights never reach later stages.
//
// With no origins or a "*" entry every origin is allowed. Otherwise the
// request Origin is matched against allowedOrigins (wildcards such as
// "https://*.example.com" are accepted) and echoed back when it matches.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	wildcard := len(allowedOrigins) == 0
	for _, o := range allowedOrigins {
		if o == "*" {
			wildcard = true
			break
		}
	}

	var matcher *cors.Cors
	if !wildcard {
		matcher = cors.New(cors.Options{AllowedOrigins: allowedOrigins})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if wildcard {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Add("Vary", "Origin")
				if origin := r.Header.Get("Origin"); origin != "" && matcher.OriginAllowed(r) {
					h.Set("Access-Control-Allow-Origin", origin)
				}
			}
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
