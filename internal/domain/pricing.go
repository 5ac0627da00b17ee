package domain

import (
	"github.com/shopspring/decimal"
)

// PricingMode says how a line total was derived.
type PricingMode string

const (
	// PricingPerKg is price per kilogram × variant weight × quantity.
	PricingPerKg PricingMode = "per_kg"
	// PricingUnit is variant price × quantity.
	PricingUnit PricingMode = "unit"
)

// LinePrice is the derived pricing of a quantity of one variant.
type LinePrice struct {
	Mode       PricingMode      `json:"mode"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	PricePerKg *decimal.Decimal `json:"price_per_kg,omitempty"`
	WeightKg   *decimal.Decimal `json:"weight_kg,omitempty"`
	Quantity   int              `json:"quantity"`
	Total      decimal.Decimal  `json:"total"`
}

// PriceLine prices qty units of v. When the product has a positive price per
// kg and the variant weight resolves to kilograms the total is per-kg based,
// otherwise it is the variant price times qty. Totals are rounded to cents.
func PriceLine(pricePerKg *decimal.Decimal, v Variant, qty int) LinePrice {
	q := decimal.NewFromInt(int64(qty))
	lp := LinePrice{Mode: PricingUnit, UnitPrice: v.Price, Quantity: qty}

	if pricePerKg != nil && pricePerKg.IsPositive() {
		if kg, ok := v.WeightKg(); ok {
			perKg := *pricePerKg
			lp.Mode = PricingPerKg
			lp.PricePerKg = &perKg
			lp.WeightKg = &kg
			lp.Total = perKg.Mul(kg).Mul(q).Round(2)
			return lp
		}
	}

	lp.Total = v.Price.Mul(q).Round(2)
	return lp
}

// MinorUnits converts a currency amount to an integer number of cents.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
