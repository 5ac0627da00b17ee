package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
)

// upstreamErrorBody covers both shapes the commerce platform uses for
// non-2xx bodies: {"errors":"text"} and {"errors":[{"message":"text"}]}.
type upstreamErrorBody struct {
	Errors json.RawMessage `json:"errors"`
}

// ParseResponseError consumes and closes the body of a non-2xx response and
// converts it into an AppError carrying the upstream message.
func ParseResponseError(resp *http.Response, upstream string) error {
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s returned status %d (read body: %w)", upstream, resp.StatusCode, err)
	}

	msg := upstreamMessage(raw)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return mapUpstreamError(resp.StatusCode, fmt.Sprintf("%s: %s", upstream, msg))
}

func upstreamMessage(raw []byte) string {
	var body upstreamErrorBody
	if json.Unmarshal(raw, &body) != nil || len(body.Errors) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var text string
	if json.Unmarshal(body.Errors, &text) == nil {
		return text
	}

	var list []struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body.Errors, &list) == nil {
		msgs := make([]string, 0, len(list))
		for _, e := range list {
			if e.Message != "" {
				msgs = append(msgs, e.Message)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return strings.TrimSpace(string(raw))
}

func mapUpstreamError(status int, msg string) error {
	switch {
	case status == http.StatusNotFound:
		return &apperrors.AppError{Code: "NOT_FOUND", Message: msg, Status: status, Err: apperrors.ErrNotFound}
	case status == http.StatusGone:
		return apperrors.Gone(msg)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return apperrors.InvalidInput(msg)
	case status == http.StatusConflict:
		return apperrors.Conflict(msg)
	case status == http.StatusTooManyRequests:
		return apperrors.RateLimited(msg)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		// A rejected storefront token is a deployment problem, not the shopper's.
		return apperrors.ServiceUnavailable(msg)
	case status >= 500:
		return apperrors.ServiceUnavailable(msg)
	default:
		return &apperrors.AppError{Code: "UPSTREAM_ERROR", Message: msg, Status: http.StatusBadGateway}
	}
}
