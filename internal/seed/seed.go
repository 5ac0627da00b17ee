// Package seed generates a synthetic storefront catalogue for local
// development and load testing. Generation is deterministic for a given seed
// so re-runs produce the same handles, IDs and prices.
package seed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/slug"
)

const (
	productIDBase = 9100000000
	currency      = "ZAR"
)

type department struct {
	Value  string
	Weight float64
	Kinds  []kind
}

// kind is one product family within a department.
type kind struct {
	Name   string
	Facet  string
	PerKg  bool
	MinZAR int
	MaxZAR int
}

var departments = []department{
	{
		Value:  domain.DepartmentButchery,
		Weight: 0.45,
		Kinds: []kind{
			{Name: "Ribeye Steak", Facet: "beef|steak", PerKg: true, MinZAR: 280, MaxZAR: 420},
			{Name: "T-Bone", Facet: "beef|steak", PerKg: true, MinZAR: 220, MaxZAR: 320},
			{Name: "Beef Short Rib", Facet: "beef|ribs", PerKg: true, MinZAR: 160, MaxZAR: 240},
			{Name: "Lamb Loin Chops", Facet: "lamb|chops", PerKg: true, MinZAR: 240, MaxZAR: 330},
			{Name: "Lamb Shank", Facet: "lamb|roasts", PerKg: true, MinZAR: 180, MaxZAR: 260},
			{Name: "Pork Belly", Facet: "pork|roasts", PerKg: true, MinZAR: 120, MaxZAR: 190},
			{Name: "Boerewors", Facet: "beef|sausages", PerKg: true, MinZAR: 110, MaxZAR: 170},
			{Name: "Chicken Sosaties", Facet: "chicken|kebabs", PerKg: true, MinZAR: 130, MaxZAR: 200},
		},
	},
	{
		Value:  domain.DepartmentDeliBiltong,
		Weight: 0.2,
		Kinds: []kind{
			{Name: "Beef Biltong", Facet: "biltong", MinZAR: 60, MaxZAR: 180},
			{Name: "Chilli Bites", Facet: "chilli-bites", MinZAR: 45, MaxZAR: 120},
			{Name: "Droewors", Facet: "droewors", MinZAR: 50, MaxZAR: 140},
		},
	},
	{
		Value:  domain.DepartmentSpicesSauces,
		Weight: 0.15,
		Kinds: []kind{
			{Name: "Braai Rub", Facet: "rubs", MinZAR: 35, MaxZAR: 90},
			{Name: "Peri-Peri Sauce", Facet: "sauces", MinZAR: 40, MaxZAR: 95},
			{Name: "Marinade", Facet: "marinades", MinZAR: 38, MaxZAR: 85},
		},
	},
	{
		Value:  domain.DepartmentBraaiGear,
		Weight: 0.1,
		Kinds: []kind{
			{Name: "Braai Tongs", Facet: "tools", MinZAR: 120, MaxZAR: 350},
			{Name: "Hinged Grid", Facet: "grids", MinZAR: 180, MaxZAR: 650},
			{Name: "Charcoal", Facet: "fuel", MinZAR: 70, MaxZAR: 220},
		},
	},
	{
		Value:  domain.DepartmentGroceries,
		Weight: 0.1,
		Kinds: []kind{
			{Name: "Pap", Facet: "pantry", MinZAR: 30, MaxZAR: 80},
			{Name: "Chakalaka", Facet: "pantry", MinZAR: 25, MaxZAR: 60},
			{Name: "Garlic Rolls", Facet: "bakery", MinZAR: 35, MaxZAR: 70},
		},
	},
}

var (
	prefixes  = []string{"Classic", "Premium", "Family", "Signature", "Farm-Style", "Smoked", "Karoo", "Traditional"}
	occasions = []string{"braai", "weeknight", "sunday-roast", "party"}
	bulkTypes = []string{"hamper", "box", "bulk-pack"}
	// Butchery variant weights in grams.
	packWeights = []int64{500, 1000, 2000}
)

// Generate returns n products with stable IDs derived from their index.
// Department shares follow the department weights; the last department takes
// the remainder so the total is exactly n.
func Generate(n int, seed uint64, now time.Time) []domain.Product {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	products := make([]domain.Product, 0, n)

	remaining := n
	idx := 0
	for i, dep := range departments {
		count := int(float64(n) * dep.Weight)
		if i == len(departments)-1 {
			count = remaining
		}
		remaining -= count

		for j := 0; j < count; j++ {
			k := dep.Kinds[j%len(dep.Kinds)]
			products = append(products, build(rng, idx, dep.Value, k, now))
			idx++
		}
	}
	return products
}

func build(rng *rand.Rand, idx int, dep string, k kind, now time.Time) domain.Product {
	title := fmt.Sprintf("%s %s", prefixes[rng.IntN(len(prefixes))], k.Name)
	id := productIDBase + idx

	p := domain.Product{
		ID:               fmt.Sprintf("gid://shopify/Product/%d", id),
		Handle:           fmt.Sprintf("%s-%d", slug.Generate(title), idx),
		Title:            title,
		Description:      fmt.Sprintf("%s from the counter, packed fresh to order.", title),
		ProductType:      k.Name,
		Vendor:           "Hokaai Meat Market",
		CurrencyCode:     currency,
		AvailableForSale: rng.IntN(20) != 0,
		CreatedAt:        now.Add(-time.Duration(rng.IntN(90*24)) * time.Hour).UTC(),
		Position:         idx,
		Department:       dep,
		Collections:      []string{dep},
	}
	applyFacet(rng, &p, dep, k.Facet)

	price := decimal.NewFromInt(int64(k.MinZAR + rng.IntN(k.MaxZAR-k.MinZAR+1)))
	if k.PerKg {
		perKg := price
		p.PricePerKg = &perKg
		for i, grams := range packWeights {
			kg := decimal.NewFromInt(grams).Div(decimal.NewFromInt(1000))
			p.Variants = append(p.Variants, domain.Variant{
				ID:               fmt.Sprintf("gid://shopify/ProductVariant/%d%d", id, i),
				Title:            fmt.Sprintf("%dg", grams),
				SKU:              fmt.Sprintf("HK-%06d-%d", idx, grams),
				Price:            perKg.Mul(kg).Round(2),
				AvailableForSale: p.AvailableForSale,
				Weight:           decimal.NewFromInt(grams),
				WeightUnit:       domain.WeightGrams,
			})
		}
	} else {
		p.Variants = []domain.Variant{{
			ID:               fmt.Sprintf("gid://shopify/ProductVariant/%d0", id),
			Title:            "Default Title",
			SKU:              fmt.Sprintf("HK-%06d", idx),
			Price:            price,
			AvailableForSale: p.AvailableForSale,
		}}
	}

	p.PriceMin = p.Variants[0].Price
	p.PriceMax = p.Variants[len(p.Variants)-1].Price
	return p
}

func applyFacet(rng *rand.Rand, p *domain.Product, dep, facet string) {
	switch dep {
	case domain.DepartmentButchery:
		meat, cut, _ := strings.Cut(facet, "|")
		p.MeatType = meat
		p.CutFamily = cut
		p.Occasion = []string{occasions[rng.IntN(len(occasions))]}
		if rng.IntN(5) == 0 {
			p.BulkType = bulkTypes[rng.IntN(len(bulkTypes))]
		}
	case domain.DepartmentDeliBiltong:
		p.DeliType = facet
	case domain.DepartmentSpicesSauces:
		p.SpiceFamily = facet
	case domain.DepartmentBraaiGear:
		p.BraaiGearFamily = facet
	case domain.DepartmentGroceries:
		p.GroceryFamily = facet
	}
	p.Tags = append(p.Tags, dep)
}
