package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/httputil"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/logger"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack.
// http.ErrAbortHandler is re-panicked so the server aborts the connection.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				l.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)
				httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:      "INTERNAL_ERROR",
						Message:   "an internal error occurred",
						RequestID: logger.CorrelationIDFromContext(r.Context()),
					},
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
