package domain

import (
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Matches reports whether p satisfies every facet in f. Facets are ANDed.
// Within occasion, sharing any selected value is enough; every other facet
// requires the product's single value to be among the selections.
func Matches(p Product, f FilterState) bool {
	for k, selected := range f {
		if len(selected) == 0 {
			continue
		}
		if k == FacetOccasion {
			if !intersects(p.Occasion, selected) {
				return false
			}
			continue
		}
		v := p.facetValue(k)
		if v == "" || !slices.Contains(selected, v) {
			return false
		}
	}
	return true
}

// Filter returns the products matching f, preserving order.
func Filter(products []Product, f FilterState) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if Matches(p, f) {
			out = append(out, p)
		}
	}
	return out
}

func intersects(a, b []string) bool {
	for _, v := range a {
		if slices.Contains(b, v) {
			return true
		}
	}
	return false
}

// FacetOption is one selectable value of a facet with the number of products
// carrying it.
type FacetOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AvailableFacets lists the options present in a result set per facet.
type AvailableFacets map[FacetKey][]FacetOption

var departmentLabels = map[string]string{
	DepartmentButchery:     "Butchery",
	DepartmentDeliBiltong:  "Deli & Biltong",
	DepartmentSpicesSauces: "Spices & Sauces",
	DepartmentBraaiGear:    "Braai Gear",
	DepartmentGroceries:    "Groceries",
}

// FacetLabel returns the display label for a facet value.
func FacetLabel(k FacetKey, value string) string {
	return facetLabel(cases.Title(language.English), k, value)
}

func facetLabel(caser cases.Caser, k FacetKey, value string) string {
	if k == FacetDepartment {
		if l, ok := departmentLabels[value]; ok {
			return l
		}
	}
	return caser.String(strings.ReplaceAll(value, "-", " "))
}

// BuildAvailableFacets counts, per facet, how many of items carry each value.
// Options are ordered by label, case-insensitively, then by value. Facets with
// no values are omitted.
func BuildAvailableFacets(items []Product) AvailableFacets {
	counts := make(map[FacetKey]map[string]int)
	for _, p := range items {
		for _, k := range FacetKeys {
			for _, v := range p.FacetValues(k) {
				if counts[k] == nil {
					counts[k] = make(map[string]int)
				}
				counts[k][v]++
			}
		}
	}

	caser := cases.Title(language.English)
	coll := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics)

	out := make(AvailableFacets, len(counts))
	for k, byValue := range counts {
		opts := make([]FacetOption, 0, len(byValue))
		for v, n := range byValue {
			opts = append(opts, FacetOption{Value: v, Label: facetLabel(caser, k, v), Count: n})
		}
		sort.SliceStable(opts, func(i, j int) bool {
			if c := coll.CompareString(opts[i].Label, opts[j].Label); c != 0 {
				return c < 0
			}
			return opts[i].Value < opts[j].Value
		})
		out[k] = opts
	}
	return out
}
