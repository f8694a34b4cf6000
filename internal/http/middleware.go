package http

import (
	"net/http"
	"strings"
)

// SecurityHeaders adds security-related headers to all responses. API
// responses carry user data and are never cached. hsts should only be
// set when the server is reached over TLS.
func SecurityHeaders(hsts bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if hsts {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}

			switch {
			case strings.HasPrefix(r.URL.Path, "/swagger/"):
				// Swagger UI needs scripts, styles, and images to render
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			case strings.HasPrefix(r.URL.Path, "/api/"):
				h.Set("Content-Security-Policy", "default-src 'none'")
				h.Set("Cache-Control", "no-store")
			default:
				h.Set("Content-Security-Policy", "default-src 'none'")
			}

			next.ServeHTTP(w, r)
		})
	}
}
