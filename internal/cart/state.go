// Package cart holds the per-session projection of a remote cart and the
// reducer that is its only mutation path.
package cart

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

// Status is the reconciliation state of a projection.
type Status string

const (
	// StatusEmpty means no remote cart is known.
	StatusEmpty Status = "empty"
	// StatusHydrated means the projection mirrors the last authoritative snapshot.
	StatusHydrated Status = "hydrated"
	// StatusMutating means at least one remote mutation is in flight.
	StatusMutating Status = "mutating"
)

// State is a shopper's view of their remote cart. Totals and counts are only
// ever derived from a hydration payload.
type State struct {
	Status         Status            `json:"status"`
	CartID         string            `json:"cart_id,omitempty"`
	CheckoutURL    string            `json:"checkout_url,omitempty"`
	Lines          []domain.CartLine `json:"lines"`
	IsOpen         bool              `json:"is_open"`
	Total          decimal.Decimal   `json:"total"`
	ItemCount      int               `json:"item_count"`
	LineCount      int               `json:"line_count"`
	SubtotalAmount int64             `json:"subtotal_amount"`
	CurrencyCode   string            `json:"currency_code,omitempty"`

	// AppliedSeq is the sequence of the last applied hydration.
	AppliedSeq uint64 `json:"applied_seq"`
	// Pending counts mutations that have started but not settled.
	Pending int `json:"-"`
}

// Empty returns the initial projection.
func Empty() State {
	return State{Status: StatusEmpty, Lines: []domain.CartLine{}, Total: decimal.Zero}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	s.Lines = slices.Clone(s.Lines)
	if s.Lines == nil {
		s.Lines = []domain.CartLine{}
	}
	return s
}

// Identity is the part of the state worth remembering between visits.
func (s State) Identity() domain.CartIdentity {
	return domain.CartIdentity{CartID: s.CartID, CheckoutURL: s.CheckoutURL}
}

// hydrate replaces every cart-derived field with those of c. The UI flag,
// the sequence bookkeeping and the pending counter are left alone.
func (s State) hydrate(c *domain.Cart) State {
	out := Empty()
	out.IsOpen = s.IsOpen
	out.AppliedSeq = s.AppliedSeq
	out.Pending = s.Pending
	if !c.Usable() {
		return out
	}

	out.CartID = c.ID
	out.CheckoutURL = c.CheckoutURL
	out.CurrencyCode = c.CurrencyCode
	out.Lines = slices.Clone(c.Lines)
	if out.Lines == nil {
		out.Lines = []domain.CartLine{}
	}
	out.LineCount = len(out.Lines)
	for _, l := range out.Lines {
		out.ItemCount += l.Quantity
		out.Total = out.Total.Add(l.Price.Total)
	}
	out.SubtotalAmount = domain.MinorUnits(c.Subtotal)
	return out
}

func (s State) withStatus() State {
	switch {
	case s.Pending > 0:
		s.Status = StatusMutating
	case s.CartID != "":
		s.Status = StatusHydrated
	default:
		s.Status = StatusEmpty
	}
	return s
}
