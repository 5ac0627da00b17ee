package cart

import (
	"sync"
	"sync/atomic"
	"time"
)

// EventType names what a subscriber is told about.
type EventType string

const (
	// EventHydrated carries a new authoritative projection.
	EventHydrated EventType = "hydrated"
	// EventNotice carries a transient shopper-facing message.
	EventNotice EventType = "notice"
	// EventState carries a UI-only change such as the drawer opening.
	EventState EventType = "state"
)

// Event is delivered to subscribers after every effective dispatch.
type Event struct {
	Type   EventType `json:"type"`
	State  State     `json:"state"`
	Notice string    `json:"notice,omitempty"`
	At     time.Time `json:"at"`
}

// Store owns one session's projection. Dispatch is the only way to change it
// and every change is fanned out to subscribers.
type Store struct {
	mu       sync.Mutex
	state    State
	subs     map[uint64]chan Event
	nextSub  uint64
	seq      atomic.Uint64
	dropped  atomic.Uint64
	lastUsed atomic.Int64
	booted   atomic.Bool
	now      func() time.Time
}

// NewStore creates a store holding the empty projection.
func NewStore() *Store {
	s := &Store{
		state: Empty(),
		subs:  make(map[uint64]chan Event),
		now:   time.Now,
	}
	s.touch()
	return s
}

// NextSeq hands out the sequence number for a new request against the store.
func (s *Store) NextSeq() uint64 {
	return s.seq.Add(1)
}

// MarkBootstrapped reports true exactly once, to the caller that should
// restore a remembered cart.
func (s *Store) MarkBootstrapped() bool {
	return s.booted.CompareAndSwap(false, true)
}

// State returns a copy of the current projection.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.state.Clone()
}

// Dispatch reduces a into the projection and notifies subscribers. It returns
// the resulting projection and what the reduction did.
func (s *Store) Dispatch(a Action) (State, Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	next, effect := Reduce(s.state, a)
	s.state = next

	ev := Event{State: next.Clone(), At: s.now().UTC()}
	switch effect {
	case EffectHydrated:
		ev.Type = EventHydrated
	case EffectChanged:
		ev.Type = EventState
	case EffectNotice:
		ev.Type = EventNotice
		if f, ok := a.(MutationFailed); ok {
			ev.Notice = f.Notice
		}
	default:
		return next.Clone(), effect
	}
	s.publish(ev)
	return next.Clone(), effect
}

// publish must be called with mu held. Slow subscribers lose events rather
// than block the dispatcher; they still converge on the next hydration.
func (s *Store) publish(ev Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			s.dropped.Add(1)
		}
	}
}

// Subscribe returns a channel of events and a function that ends the
// subscription and closes the channel.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.touch()
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Dropped returns how many events were not delivered to slow subscribers.
func (s *Store) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Store) touch() {
	s.lastUsed.Store(s.now().UnixNano())
}

func (s *Store) idleSince() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}
