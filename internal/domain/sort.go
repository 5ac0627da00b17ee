package domain

import (
	"sort"
	"strings"
)

// SortOption orders a product listing.
type SortOption string

const (
	SortFeatured  SortOption = "featured"
	SortRelevance SortOption = "relevance"
	SortPriceAsc  SortOption = "price-asc"
	SortPriceDesc SortOption = "price-desc"
	SortTitleAsc  SortOption = "title-asc"
	SortTitleDesc SortOption = "title-desc"
	SortNewest    SortOption = "newest"
)

// ParseSort maps a query value to a SortOption. An empty or unknown value
// means relevance when a search query is present and featured otherwise.
func ParseSort(raw string, hasQuery bool) SortOption {
	switch opt := SortOption(strings.ToLower(strings.TrimSpace(raw))); opt {
	case SortFeatured, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc, SortNewest:
		return opt
	case SortRelevance:
		if hasQuery {
			return opt
		}
		return SortFeatured
	}
	if hasQuery {
		return SortRelevance
	}
	return SortFeatured
}

// SortProducts orders products in place. Relevance keeps the incoming order,
// which is the ranking order when a search ran. All sorts are stable.
func SortProducts(products []Product, opt SortOption) {
	var less func(a, b Product) bool
	switch opt {
	case SortFeatured:
		less = func(a, b Product) bool { return a.Position < b.Position }
	case SortPriceAsc:
		less = func(a, b Product) bool { return a.PriceMin.LessThan(b.PriceMin) }
	case SortPriceDesc:
		less = func(a, b Product) bool { return a.PriceMin.GreaterThan(b.PriceMin) }
	case SortTitleAsc:
		less = func(a, b Product) bool { return strings.ToLower(a.Title) < strings.ToLower(b.Title) }
	case SortTitleDesc:
		less = func(a, b Product) bool { return strings.ToLower(a.Title) > strings.ToLower(b.Title) }
	case SortNewest:
		less = func(a, b Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	default:
		return
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}
