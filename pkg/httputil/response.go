package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/logger"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/validator"
)

// Response is the JSON envelope returned by every storefront endpoint.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse is the error half of the envelope. Notice carries a short
// shopper-facing message for toast-style display.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	Notice    string            `json:"notice,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Noticer is implemented by errors that carry a shopper-facing notice.
type Noticer interface {
	Notice() string
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v in the envelope and writes it.
func WriteData(w http.ResponseWriter, status int, v any) {
	WriteJSON(w, status, Response{Data: v})
}

// WriteError maps err onto the envelope. Validation errors produce field
// messages; 5xx errors are logged with the request-scoped logger, falling back
// to fallback when no RequestLogger middleware is mounted.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	l := logger.FromContext(r.Context())
	if l == slog.Default() && fallback != nil {
		l = fallback
	}

	resp := &ErrorResponse{RequestID: logger.CorrelationIDFromContext(r.Context())}
	var n Noticer
	if errors.As(err, &n) {
		resp.Notice = n.Notice()
	}

	var valErr *validator.ValidationError
	var appErr *apperrors.AppError
	status := apperrors.HTTPStatus(err)

	switch {
	case errors.As(err, &valErr):
		status = http.StatusBadRequest
		resp.Code = "VALIDATION_ERROR"
		resp.Message = "request validation failed"
		resp.Fields = valErr.Fields()
	case errors.As(err, &appErr):
		resp.Code = appErr.Code
		resp.Message = appErr.Message
	default:
		resp.Code, resp.Message = sentinelCode(err, status)
	}

	if status >= http.StatusInternalServerError {
		l.ErrorContext(r.Context(), "request failed",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
		)
	}

	WriteJSON(w, status, Response{Error: resp})
}

func sentinelCode(err error, status int) (string, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrGone):
		return "GONE", "resource no longer exists"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrRateLimited):
		return "RATE_LIMITED", "too many requests"
	case errors.Is(err, apperrors.ErrServiceUnavail):
		return "SERVICE_UNAVAILABLE", "upstream service unavailable"
	case status == http.StatusConflict:
		return "CONFLICT", "request conflicts with current state"
	default:
		return "INTERNAL_ERROR", "an internal error occurred"
	}
}
