package middleware

import (
	"net/http"
	"strings"
)

// CORS returns middleware that allows exactly one browser origin. Requests
// from any other origin receive no CORS headers. Preflight requests are
// answered with 204 without reaching the router.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	origin := strings.TrimRight(strings.TrimSpace(allowedOrigin), "/")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestOrigin := r.Header.Get("Origin")
			allowed := origin != "" && requestOrigin != "" && strings.EqualFold(requestOrigin, origin)

			if allowed {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", requestOrigin)
				h.Add("Vary", "Origin")
				h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept, X-Request-ID")
				h.Set("Access-Control-Expose-Headers", "X-Request-ID")
				h.Set("Access-Control-Max-Age", "3600")
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
