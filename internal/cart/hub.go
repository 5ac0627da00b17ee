package cart

import (
	"context"
	"sync"
	"time"
)

// Hub keeps one Store per shopper session. Stores that have been idle for
// longer than the ttl and have no subscribers are evicted by Run.
type Hub struct {
	mu     sync.Mutex
	stores map[string]*Store
	ttl    time.Duration
	now    func() time.Time
}

// NewHub creates a hub evicting stores idle for longer than ttl.
func NewHub(ttl time.Duration) *Hub {
	return &Hub{
		stores: make(map[string]*Store),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the session's store, creating it on first use.
func (h *Hub) Get(sessionID string) *Store {
	h.mu.Lock()
	defer h.mu.Unlock()

	st, ok := h.stores[sessionID]
	if !ok {
		st = NewStore()
		st.now = h.now
		st.touch()
		h.stores[sessionID] = st
	}
	return st
}

// Len returns the number of live stores.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stores)
}

// Run evicts idle stores every ttl/2 until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	interval := h.ttl / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.evict()
		}
	}
}

func (h *Hub) evict() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	evicted := 0
	for id, st := range h.stores {
		if st.Subscribers() == 0 && now.Sub(st.idleSince()) > h.ttl {
			delete(h.stores, id)
			evicted++
		}
	}
	return evicted
}
