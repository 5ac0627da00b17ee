package cart

import (
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

// Action is a message the reducer understands.
type Action interface {
	isAction()
}

// MutationStarted marks a remote mutation as in flight.
type MutationStarted struct {
	Seq uint64
}

// MutationSucceeded settles a mutation with its authoritative snapshot.
type MutationSucceeded struct {
	Seq  uint64
	Cart *domain.Cart
}

// MutationFailed settles a mutation that the remote rejected or never answered.
type MutationFailed struct {
	Seq    uint64
	Notice string
}

// Bootstrapped applies the snapshot fetched for a remembered cart. A nil or
// unusable snapshot resets the projection to empty.
type Bootstrapped struct {
	Seq  uint64
	Cart *domain.Cart
}

// Reset settles a mutation that found the remote cart gone and forgets the
// cart. It is dropped when a newer snapshot has already been applied.
type Reset struct {
	Seq uint64
}

// SetOpen toggles the cart drawer.
type SetOpen struct {
	Open bool
}

func (MutationStarted) isAction()   {}
func (MutationSucceeded) isAction() {}
func (MutationFailed) isAction()    {}
func (Bootstrapped) isAction()      {}
func (Reset) isAction()             {}
func (SetOpen) isAction()           {}

// Effect describes what a reduction did, for the caller to act on.
type Effect int

const (
	EffectNone Effect = iota
	// EffectHydrated means a snapshot replaced the projection.
	EffectHydrated
	// EffectStale means a snapshot older than the applied one was dropped.
	EffectStale
	// EffectNotice means a failure notice should reach the shopper.
	EffectNotice
	// EffectChanged means only UI state changed.
	EffectChanged
)

// Reduce returns the state that follows s after a. It never modifies s.
// Snapshots only apply when their sequence is newer than the last applied
// one, so a slow response cannot overwrite a fresher cart.
func Reduce(s State, a Action) (State, Effect) {
	next := s.Clone()

	switch a := a.(type) {
	case MutationStarted:
		next.Pending++
		return next.withStatus(), EffectChanged

	case MutationSucceeded:
		next = settle(next)
		if a.Seq <= next.AppliedSeq {
			return next.withStatus(), EffectStale
		}
		next = next.hydrate(a.Cart)
		next.AppliedSeq = a.Seq
		return next.withStatus(), EffectHydrated

	case MutationFailed:
		return settle(next).withStatus(), EffectNotice

	case Bootstrapped:
		if a.Seq <= next.AppliedSeq {
			return next.withStatus(), EffectStale
		}
		next = next.hydrate(a.Cart)
		next.AppliedSeq = a.Seq
		return next.withStatus(), EffectHydrated

	case Reset:
		next = settle(next)
		if a.Seq <= next.AppliedSeq {
			return next.withStatus(), EffectStale
		}
		cleared := Empty()
		cleared.IsOpen = next.IsOpen
		cleared.Pending = next.Pending
		cleared.AppliedSeq = a.Seq
		return cleared.withStatus(), EffectHydrated

	case SetOpen:
		if next.IsOpen == a.Open {
			return next, EffectNone
		}
		next.IsOpen = a.Open
		return next, EffectChanged
	}

	return next, EffectNone
}

func settle(s State) State {
	if s.Pending > 0 {
		s.Pending--
	}
	return s
}
