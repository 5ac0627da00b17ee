package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Checker reports the health of one dependency.
type Checker func(ctx context.Context) error

// Status is the health of a component or of the whole process.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

const checkTimeout = 3 * time.Second

// Response is the JSON body of the health endpoints.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status   Status `json:"status"`
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type entry struct {
	check    Checker
	critical bool
}

// Handler serves liveness and readiness endpoints.
type Handler struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewHandler creates a handler with no checks.
func NewHandler() *Handler {
	return &Handler{entries: make(map[string]entry)}
}

// Register adds a critical check: if it fails, readiness answers 503.
func (h *Handler) Register(name string, c Checker) {
	h.register(name, c, true)
}

// RegisterOptional adds a non-critical check: if it fails, readiness reports
// "degraded" but still answers 200.
func (h *Handler) RegisterOptional(name string, c Checker) {
	h.register(name, c, false)
}

func (h *Handler) register(name string, c Checker, critical bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[name] = entry{check: c, critical: critical}
}

// LivenessHandler answers 200 while the process runs.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusOK, Response{Status: StatusUp, Timestamp: time.Now().UTC()})
	}
}

// ReadinessHandler runs every check in parallel and aggregates the result.
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
		defer cancel()

		resp := h.Check(ctx)
		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		writeResponse(w, status, resp)
	}
}

// Check runs all registered checks.
func (h *Handler) Check(ctx context.Context) Response {
	h.mu.RLock()
	entries := make(map[string]entry, len(h.entries))
	for k, v := range h.entries {
		entries[k] = v
	}
	h.mu.RUnlock()

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		checks = make(map[string]CheckResult, len(entries))
	)
	for name, e := range entries {
		wg.Add(1)
		go func(name string, e entry) {
			defer wg.Done()
			res := CheckResult{Status: StatusUp, Critical: e.critical}
			if err := e.check(ctx); err != nil {
				res.Status = StatusDown
				res.Error = err.Error()
			}
			mu.Lock()
			checks[name] = res
			mu.Unlock()
		}(name, e)
	}
	wg.Wait()

	overall := StatusUp
	for _, c := range checks {
		if c.Status != StatusDown {
			continue
		}
		if c.Critical {
			overall = StatusDown
			break
		}
		overall = StatusDegraded
	}

	return Response{Status: overall, Timestamp: time.Now().UTC(), Checks: checks}
}

func writeResponse(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
