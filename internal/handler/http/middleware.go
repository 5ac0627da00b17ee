package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/logger"
)

// SessionConfig configures the shopper session cookie.
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Session identifies the shopper by an opaque cookie, issuing a new one when
// it is missing or malformed. The cookie is re-sent on every response so its
// lifetime slides with activity. The ID is stored in the request context.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	name := cfg.CookieName
	if name == "" {
		name = "storefront_session"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(name); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    id,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := logger.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionID returns the shopper session set by Session, or "".
func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
