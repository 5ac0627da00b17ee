package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrInvalidInput, ErrConflict, ErrGone,
		ErrRateLimited, ErrServiceUnavail, ErrInternal,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j])
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	inner := fmt.Errorf("shopify timeout")
	withInner := &AppError{Code: "SERVICE_UNAVAILABLE", Message: "cart platform down", Err: inner}
	assert.Equal(t, "SERVICE_UNAVAILABLE: cart platform down: shopify timeout", withInner.Error())

	bare := &AppError{Code: "NOT_FOUND", Message: "product missing"}
	assert.Equal(t, "NOT_FOUND: product missing", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{"not found", NotFound("product", "ribeye"), "NOT_FOUND", http.StatusNotFound, ErrNotFound},
		{"invalid input", InvalidInput("bad quantity"), "INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput},
		{"conflict", Conflict("stale"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"gone", Gone("cart expired"), "GONE", http.StatusGone, ErrGone},
		{"rate limited", RateLimited("slow down"), "RATE_LIMITED", http.StatusTooManyRequests, ErrRateLimited},
		{"unavailable", ServiceUnavailable("breaker open"), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.True(t, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestNotFound_Message(t *testing.T) {
	err := NotFound("product", "ribeye")
	assert.Equal(t, `product "ribeye" not found`, err.Message)
}

func TestInternal_HidesCause(t *testing.T) {
	cause := errors.New("redis: connection refused")
	err := Internal(cause)

	assert.Equal(t, "an internal error occurred", err.Message)
	assert.True(t, errors.Is(err, cause))
}

func TestWrap(t *testing.T) {
	err := Wrap(ErrNotFound, "load cart")
	assert.Equal(t, "load cart: resource not found", err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("cart", "x")))
	assert.True(t, IsNotFound(Gone("cart expired")))
	assert.True(t, IsNotFound(fmt.Errorf("get cart: %w", ErrNotFound)))
	assert.False(t, IsNotFound(InvalidInput("nope")))
	assert.False(t, IsNotFound(nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{InvalidInput("x"), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", ErrGone), http.StatusGone},
		{fmt.Errorf("wrapped: %w", ErrConflict), http.StatusConflict},
		{fmt.Errorf("wrapped: %w", ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", ErrRateLimited), http.StatusTooManyRequests},
		{fmt.Errorf("wrapped: %w", ErrServiceUnavail), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, HTTPStatus(tt.err), tt.err.Error())
	}
}
