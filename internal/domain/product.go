package domain

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// WeightUnit is the unit a variant's weight is recorded in.
type WeightUnit string

const (
	WeightGrams     WeightUnit = "GRAMS"
	WeightKilograms WeightUnit = "KILOGRAMS"
	WeightPounds    WeightUnit = "POUNDS"
	WeightOunces    WeightUnit = "OUNCES"
)

// Image is a product or variant image.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// Variant is a purchasable option of a product.
type Variant struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	SKU              string           `json:"sku,omitempty"`
	Price            decimal.Decimal  `json:"price"`
	CompareAtPrice   *decimal.Decimal `json:"compare_at_price,omitempty"`
	AvailableForSale bool             `json:"available_for_sale"`
	Weight           decimal.Decimal  `json:"weight"`
	WeightUnit       WeightUnit       `json:"weight_unit"`
}

// WeightKg returns the variant weight in kilograms. Only grams and kilograms
// are understood; other units and non-positive weights report false.
func (v Variant) WeightKg() (decimal.Decimal, bool) {
	if !v.Weight.IsPositive() {
		return decimal.Zero, false
	}
	switch v.WeightUnit {
	case WeightGrams:
		return v.Weight.Div(decimal.NewFromInt(1000)), true
	case WeightKilograms:
		return v.Weight, true
	default:
		return decimal.Zero, false
	}
}

// Product is a catalogue entry with its facet attributes resolved.
type Product struct {
	ID          string    `json:"id"`
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ProductType string    `json:"product_type,omitempty"`
	Vendor      string    `json:"vendor,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	Collections []string  `json:"collections,omitempty"`
	Images      []Image   `json:"images,omitempty"`
	Variants    []Variant `json:"variants"`

	PriceMin     decimal.Decimal  `json:"price_min"`
	PriceMax     decimal.Decimal  `json:"price_max"`
	CurrencyCode string           `json:"currency_code"`
	PricePerKg   *decimal.Decimal `json:"price_per_kg,omitempty"`

	AvailableForSale bool      `json:"available_for_sale"`
	CreatedAt        time.Time `json:"created_at"`
	// Position is the product's place in the merchandised catalogue order.
	Position int `json:"position"`

	Department      string   `json:"department,omitempty"`
	MeatType        string   `json:"meat_type,omitempty"`
	CutFamily       string   `json:"cut_family,omitempty"`
	Occasion        []string `json:"occasion,omitempty"`
	BulkType        string   `json:"bulk_type,omitempty"`
	DeliType        string   `json:"deli_type,omitempty"`
	SpiceFamily     string   `json:"spice_family,omitempty"`
	BraaiGearFamily string   `json:"braai_gear_family,omitempty"`
	GroceryFamily   string   `json:"grocery_family,omitempty"`
}

// FacetValues returns the product's values for facet k. Single-valued facets
// yield at most one value.
func (p Product) FacetValues(k FacetKey) []string {
	if k == FacetOccasion {
		return p.Occasion
	}
	if v := p.facetValue(k); v != "" {
		return []string{v}
	}
	return nil
}

func (p Product) facetValue(k FacetKey) string {
	switch k {
	case FacetDepartment:
		return p.Department
	case FacetMeatType:
		return p.MeatType
	case FacetCutFamily:
		return p.CutFamily
	case FacetBulkType:
		return p.BulkType
	case FacetDeliType:
		return p.DeliType
	case FacetSpiceFamily:
		return p.SpiceFamily
	case FacetBraaiGearFamily:
		return p.BraaiGearFamily
	case FacetGroceryFamily:
		return p.GroceryFamily
	default:
		return ""
	}
}

// Variant returns the variant with the given ID.
func (p Product) Variant(id string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return Variant{}, false
}

// InCollection reports whether the product belongs to the collection handle.
func (p Product) InCollection(handle string) bool {
	return slices.Contains(p.Collections, handle)
}
