package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/httputil"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/logger"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

// --- RequestLogging / RequestLogger ---

func TestRequestLogging_GeneratesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("storefront", "info", &buf)

	var seen string
	h := RequestLogging(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/lines", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationHeader))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, float64(http.StatusCreated), line["status"])
	assert.Equal(t, seen, line["correlation_id"])
}

func TestRequestLogging_ReusesInboundCorrelationID(t *testing.T) {
	h := RequestLogging(discardLogger())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "inbound-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "inbound-1", rec.Header().Get(CorrelationHeader))
}

func TestRequestLogger_EnrichesWithSession(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("storefront", "info", &buf)

	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside")
	}))

	ctx := logger.WithCorrelationID(context.Background(), "corr-1")
	ctx = logger.WithSessionID(ctx, "sess-1")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "corr-1", line["correlation_id"])
	assert.Equal(t, "sess-1", line["session_id"])
}

// --- Recovery ---

func TestRecovery_WritesEnvelope(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
}

func TestRecovery_RepanicsAbortHandler(t *testing.T) {
	h := Recovery(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

// --- statusRecorder ---

func TestStatusRecorder_FlushesThrough(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := newStatusRecorder(rec)

	var w http.ResponseWriter = sr
	f, ok := w.(http.Flusher)
	require.True(t, ok)
	f.Flush()
	assert.True(t, rec.Flushed)

	assert.Same(t, sr, newStatusRecorder(sr))
}

// --- Metrics ---

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics("metrics-test"))
	r.Get("/api/v1/products/{handle}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, handle := range []string{"ribeye", "brisket"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/products/"+handle, nil))
	}

	counter := httpRequestsTotal.WithLabelValues("metrics-test", http.MethodGet, "/api/v1/products/{handle}", "404")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("metrics-test")))
}

// --- Tracing ---

func TestTracing_NamesSpanAfterRoute(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	r := chi.NewRouter()
	r.Use(Tracing("storefront"))
	r.Get("/api/v1/cart", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/v1/cart", spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.NotEmpty(t, rec.Header().Get("traceparent"))
}

// --- CORS ---

func TestCORS_AllowsListedOriginWithCredentials(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"https://shop.example.com"}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://shop.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"https://shop.example.com"}))(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart/lines", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_UnlistedOriginGetsNoHeaders(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"https://shop.example.com"}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_WildcardIgnoredWithCredentials(t *testing.T) {
	withCreds := CORS(DefaultCORSConfig([]string{"*"}))(okHandler())
	cfg := DefaultCORSConfig([]string{"*"})
	cfg.AllowCredentials = false
	anon := CORS(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://any.example.com")

	rec := httptest.NewRecorder()
	withCreds.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	anon.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

// --- Cache ---

func TestCacheControl(t *testing.T) {
	h := CacheControl(60, 300)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "public, max-age=60, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Empty(t, rec.Header().Get("Cache-Control"))

	rec = httptest.NewRecorder()
	NoStore(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

// --- IP allowlist / pprof ---

func TestIPAllowlist(t *testing.T) {
	h := IPAllowlist([]string{"10.0.0.0/8", "not-a-cidr", "::1/128"}, discardLogger())(okHandler())

	tests := []struct {
		remote string
		status int
	}{
		{"10.1.2.3:5555", http.StatusOK},
		{"[::1]:5555", http.StatusOK},
		{"192.168.1.1:5555", http.StatusForbidden},
		{"garbage", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, tt.status, rec.Code, tt.remote)
	}
}

func TestRegisterPprof(t *testing.T) {
	r := chi.NewRouter()
	RegisterPprof(r, []string{"127.0.0.0/8"}, discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/cmdline", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.RemoteAddr = "8.8.8.8:1234"
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// --- Rate limiting ---

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(1, 2, discardLogger())
	h := l.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/contact", nil)
		req.RemoteAddr = "203.0.113.5:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/contact", nil)
	req.RemoteAddr = "203.0.113.6:1000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter_Evicts(t *testing.T) {
	now := time.Now()
	l := NewRateLimiter(1, 1, discardLogger())
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	assert.Equal(t, 2, l.size())

	now = now.Add(4 * time.Minute)
	l.Allow("b")
	l.evict()
	assert.Equal(t, 1, l.size())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:443"
	assert.Equal(t, "10.0.0.1", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	assert.Equal(t, "198.51.100.2", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "junk, 203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(req))
}
