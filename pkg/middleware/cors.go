package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin access for the storefront frontend.
type CORSConfig struct {
	// AllowedOrigins lists exact origins. "*" allows any origin, but is
	// ignored when AllowCredentials is set since browsers reject it.
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	MaxAge           int
	AllowCredentials bool
}

// DefaultCORSConfig returns a config for a frontend on origins that sends the
// session cookie along with API calls.
func DefaultCORSConfig(origins []string) CORSConfig {
	return CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", CorrelationHeader, "Last-Event-ID"},
		ExposedHeaders:   []string{CorrelationHeader},
		MaxAge:           600,
		AllowCredentials: true,
	}
}

// CORS answers preflight requests and decorates responses for allowed origins.
// Requests from other origins get no CORS headers and are left to the browser to block.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	wildcard := false
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			wildcard = !cfg.AllowCredentials
			continue
		}
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			_, listed := origins[origin]

			h := w.Header()
			h.Add("Vary", "Origin")
			switch {
			case origin == "":
			case listed:
				h.Set("Access-Control-Allow-Origin", origin)
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			case wildcard:
				h.Set("Access-Control-Allow-Origin", "*")
			default:
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if exposed != "" && origin != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
