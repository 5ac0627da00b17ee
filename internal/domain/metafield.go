package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/slug"
)

// Metafield keys read from the commerce platform (namespace "custom").
const (
	MetafieldNamespace       = "custom"
	MetafieldDepartment      = "department"
	MetafieldMeatType        = "meat_type"
	MetafieldCutFamily       = "cut_family"
	MetafieldOccasion        = "occasion"
	MetafieldBulkType        = "bulk_type"
	MetafieldDeliType        = "deli_type"
	MetafieldSpiceFamily     = "spice_family"
	MetafieldBraaiGearFamily = "braai_gear_family"
	MetafieldGroceryFamily   = "grocery_family"
	MetafieldPricePerKg      = "price_per_kg"
)

// FacetMetafields maps each facet to the metafield that feeds it.
var FacetMetafields = map[FacetKey]string{
	FacetDepartment:      MetafieldDepartment,
	FacetMeatType:        MetafieldMeatType,
	FacetCutFamily:       MetafieldCutFamily,
	FacetOccasion:        MetafieldOccasion,
	FacetBulkType:        MetafieldBulkType,
	FacetDeliType:        MetafieldDeliType,
	FacetSpiceFamily:     MetafieldSpiceFamily,
	FacetBraaiGearFamily: MetafieldBraaiGearFamily,
	FacetGroceryFamily:   MetafieldGroceryFamily,
}

// NormalizeMetafield turns a raw metafield value into a list of strings.
// A JSON array is decoded element by element; anything else, malformed JSON
// included, is split on commas. Entries are trimmed and empty ones dropped.
func NormalizeMetafield(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	if strings.HasPrefix(s, "[") {
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err == nil {
			out := make([]string, 0, len(arr))
			for _, el := range arr {
				if el == nil {
					continue
				}
				if v := strings.TrimSpace(fmt.Sprint(el)); v != "" {
					out = append(out, v)
				}
			}
			return out
		}
	}

	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if v := strings.Trim(strings.TrimSpace(part), `[]"`); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// FacetValuesFromMetafield normalises a metafield and slugs every entry so
// catalogue values line up with URL filter values. Duplicates are dropped.
func FacetValuesFromMetafield(raw string) []string {
	var out []string
	for _, v := range NormalizeMetafield(raw) {
		if s := slug.Generate(v); s != "" && !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}

// ApplyFacetMetafields sets the product's facet attributes from raw metafield
// values keyed by metafield key. Single-valued facets keep the first entry.
func (p *Product) ApplyFacetMetafields(raw map[string]string) {
	first := func(key string) string {
		if vals := FacetValuesFromMetafield(raw[key]); len(vals) > 0 {
			return vals[0]
		}
		return ""
	}
	p.Department = first(MetafieldDepartment)
	p.MeatType = first(MetafieldMeatType)
	p.CutFamily = first(MetafieldCutFamily)
	p.Occasion = FacetValuesFromMetafield(raw[MetafieldOccasion])
	p.BulkType = first(MetafieldBulkType)
	p.DeliType = first(MetafieldDeliType)
	p.SpiceFamily = first(MetafieldSpiceFamily)
	p.BraaiGearFamily = first(MetafieldBraaiGearFamily)
	p.GroceryFamily = first(MetafieldGroceryFamily)
}
