package pagination

import "math"

// Storefront grid defaults. A grid row holds four products.
const (
	DefaultPerPage = 24
	MaxPerPage     = 96
	// MaxPage keeps Offset within int for every allowed page size.
	MaxPage = math.MaxInt / MaxPerPage
)

// Params holds the requested page window.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// New normalises page and perPage: page defaults to 1 and is capped at
// MaxPage, perPage defaults to DefaultPerPage and is capped at MaxPerPage.
func New(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Offset is the index of the first item on the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Bounds returns the half-open slice range [lo, hi) of the page within total items.
// Pages past the end yield an empty range.
func (p Params) Bounds(total int) (lo, hi int) {
	if total <= 0 || p.Page < 1 || p.PerPage < 1 {
		return 0, 0
	}
	if p.Page-1 >= (total+p.PerPage-1)/p.PerPage {
		return total, total
	}
	lo = p.Offset()
	hi = lo + p.PerPage
	if hi > total {
		hi = total
	}
	return lo, hi
}

// Meta describes a page within a result set.
type Meta struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalCount int  `json:"total_count"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewMeta computes page metadata for total items.
func NewMeta(total int, p Params) Meta {
	totalPages := total / p.PerPage
	if total%p.PerPage > 0 {
		totalPages++
	}
	return Meta{
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalCount: total,
		TotalPages: totalPages,
		HasNext:    p.Page < totalPages,
		HasPrev:    p.Page > 1,
	}
}
