package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

func line(id, variant string, qty int, unit string) domain.CartLine {
	price := decimal.RequireFromString(unit)
	return domain.CartLine{
		ID:            id,
		MerchandiseID: variant,
		Title:         "Line " + id,
		Quantity:      qty,
		Price:         domain.PriceLine(nil, domain.Variant{ID: variant, Price: price}, qty),
	}
}

func snapshot(id string, lines ...domain.CartLine) *domain.Cart {
	c := &domain.Cart{
		ID:           id,
		CheckoutURL:  "https://shop.example.com/cart/c/" + id,
		Lines:        lines,
		CurrencyCode: "ZAR",
	}
	for _, l := range lines {
		c.TotalQuantity += l.Quantity
		c.Subtotal = c.Subtotal.Add(l.Price.Total)
	}
	c.Total = c.Subtotal
	return c
}

func TestReduce_MutationLifecycle(t *testing.T) {
	s := Empty()

	s, eff := Reduce(s, MutationStarted{Seq: 1})
	assert.Equal(t, EffectChanged, eff)
	assert.Equal(t, StatusMutating, s.Status)
	assert.Empty(t, s.Lines, "no optimistic lines while mutating")

	s, eff = Reduce(s, MutationSucceeded{Seq: 1, Cart: snapshot("c1", line("l1", "v1", 2, "120.00"))})
	assert.Equal(t, EffectHydrated, eff)
	assert.Equal(t, StatusHydrated, s.Status)
	assert.Equal(t, "c1", s.CartID)
	assert.Equal(t, 1, s.LineCount)
	assert.Equal(t, 2, s.ItemCount)
	assert.Equal(t, "240.00", s.Total.StringFixed(2))
	assert.Equal(t, int64(24000), s.SubtotalAmount)
	assert.Equal(t, "ZAR", s.CurrencyCode)
	assert.Equal(t, uint64(1), s.AppliedSeq)
}

func TestReduce_HydrationReplacesNeverMerges(t *testing.T) {
	s, _ := Reduce(Empty(), Bootstrapped{Seq: 1, Cart: snapshot("c1",
		line("l1", "v1", 1, "10"),
		line("l2", "v2", 3, "20"),
	)})
	require.Equal(t, 2, s.LineCount)

	payload := snapshot("c1", line("l3", "v3", 1, "99"))
	s, _ = Reduce(s, MutationSucceeded{Seq: 2, Cart: payload})

	assert.Equal(t, payload.Lines, s.Lines)
	assert.Equal(t, 1, s.ItemCount)
	assert.Equal(t, "99.00", s.Total.StringFixed(2))
}

func TestReduce_StaleHydrationIgnored(t *testing.T) {
	s := Empty()
	s, _ = Reduce(s, MutationStarted{Seq: 1})
	s, _ = Reduce(s, MutationStarted{Seq: 2})

	fresh := snapshot("c1")
	s, eff := Reduce(s, MutationSucceeded{Seq: 2, Cart: fresh})
	require.Equal(t, EffectHydrated, eff)
	assert.Equal(t, StatusMutating, s.Status)

	s, eff = Reduce(s, MutationSucceeded{Seq: 1, Cart: snapshot("c1", line("l1", "v1", 1, "10"))})
	assert.Equal(t, EffectStale, eff)
	assert.Empty(t, s.Lines)
	assert.Equal(t, uint64(2), s.AppliedSeq)
	assert.Equal(t, StatusHydrated, s.Status)
}

func TestReduce_FailureLeavesCartUntouched(t *testing.T) {
	before, _ := Reduce(Empty(), Bootstrapped{Seq: 1, Cart: snapshot("c1", line("l1", "v1", 1, "10"))})

	s, _ := Reduce(before, MutationStarted{Seq: 2})
	s, eff := Reduce(s, MutationFailed{Seq: 2, Notice: "Could not update your cart."})

	assert.Equal(t, EffectNotice, eff)
	assert.Equal(t, before, s)
}

func TestReduce_BootstrapWithoutCartIsEmpty(t *testing.T) {
	s, eff := Reduce(Empty(), Bootstrapped{Seq: 1, Cart: nil})
	assert.Equal(t, EffectHydrated, eff)
	assert.Equal(t, StatusEmpty, s.Status)

	s, _ = Reduce(Empty(), Bootstrapped{Seq: 1, Cart: &domain.Cart{}})
	assert.Equal(t, StatusEmpty, s.Status)
	assert.Equal(t, "", s.CartID)
}

func TestReduce_ResetKeepsDrawer(t *testing.T) {
	s, _ := Reduce(Empty(), SetOpen{Open: true})
	s, _ = Reduce(s, Bootstrapped{Seq: 4, Cart: snapshot("c1", line("l1", "v1", 1, "10"))})
	s, _ = Reduce(s, MutationStarted{Seq: 5})

	s, eff := Reduce(s, Reset{Seq: 5})

	assert.Equal(t, EffectHydrated, eff)
	assert.Equal(t, StatusEmpty, s.Status)
	assert.True(t, s.IsOpen)
	assert.Equal(t, uint64(5), s.AppliedSeq)
	assert.Equal(t, 0, s.Pending)
	assert.Equal(t, "", s.CartID)
	assert.Empty(t, s.Lines)
}

func TestReduce_ResetOlderThanAppliedIsStale(t *testing.T) {
	s, _ := Reduce(Empty(), MutationStarted{Seq: 1})
	s, _ = Reduce(s, MutationStarted{Seq: 2})
	s, _ = Reduce(s, MutationSucceeded{Seq: 2, Cart: snapshot("c2", line("l1", "v1", 1, "10"))})

	s, eff := Reduce(s, Reset{Seq: 1})

	assert.Equal(t, EffectStale, eff)
	assert.Equal(t, "c2", s.CartID)
	assert.Len(t, s.Lines, 1)
	assert.Equal(t, 0, s.Pending)
}

func TestReduce_SetOpen(t *testing.T) {
	s, eff := Reduce(Empty(), SetOpen{Open: true})
	assert.Equal(t, EffectChanged, eff)
	assert.True(t, s.IsOpen)

	_, eff = Reduce(s, SetOpen{Open: true})
	assert.Equal(t, EffectNone, eff)
}

func TestReduce_HydrationKeepsDrawerState(t *testing.T) {
	s, _ := Reduce(Empty(), SetOpen{Open: true})
	s, _ = Reduce(s, MutationSucceeded{Seq: 1, Cart: snapshot("c1")})
	assert.True(t, s.IsOpen)
}

func TestReduce_DoesNotAliasInput(t *testing.T) {
	payload := snapshot("c1", line("l1", "v1", 1, "10"))
	s, _ := Reduce(Empty(), Bootstrapped{Seq: 1, Cart: payload})

	payload.Lines[0].Quantity = 50
	assert.Equal(t, 1, s.Lines[0].Quantity)
}

func TestReduce_UpdateToZeroEmptiesLines(t *testing.T) {
	s, _ := Reduce(Empty(), MutationSucceeded{Seq: 1, Cart: snapshot("c1", line("l1", "V1", 1, "45"))})
	require.Equal(t, 1, s.LineCount)
	require.Equal(t, 1, s.ItemCount)

	s, _ = Reduce(s, MutationSucceeded{Seq: 2, Cart: snapshot("c1")})
	assert.Equal(t, 0, s.LineCount)
	assert.Equal(t, 0, s.ItemCount)
	assert.Equal(t, StatusHydrated, s.Status)
}
