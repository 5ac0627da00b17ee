package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("unreachable") }

func serveReady(t *testing.T, h *Handler) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler().LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestReadiness_AllUp(t *testing.T) {
	h := NewHandler()
	h.Register("redis", up)
	h.Register("catalog", up)

	code, resp := serveReady(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Len(t, resp.Checks, 2)
}

func TestReadiness_CriticalDown(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", down)
	h.RegisterOptional("kafka", up)

	code, resp := serveReady(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, "unreachable", resp.Checks["catalog"].Error)
	assert.True(t, resp.Checks["catalog"].Critical)
}

func TestReadiness_OptionalDownIsDegraded(t *testing.T) {
	h := NewHandler()
	h.Register("catalog", up)
	h.RegisterOptional("kafka", down)

	code, resp := serveReady(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.False(t, resp.Checks["kafka"].Critical)
}

func TestReadiness_NoChecks(t *testing.T) {
	code, resp := serveReady(t, NewHandler())
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestRegister_Overwrites(t *testing.T) {
	h := NewHandler()
	h.Register("redis", down)
	h.Register("redis", up)

	_, resp := serveReady(t, h)
	assert.Equal(t, StatusUp, resp.Status)
}
