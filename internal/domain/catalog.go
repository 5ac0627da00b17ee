package domain

import (
	"time"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/pagination"
)

// CatalogQuery holds all parameters of a listing request.
type CatalogQuery struct {
	Search     string            `json:"search,omitempty"`
	Collection string            `json:"collection,omitempty"`
	Filters    FilterState       `json:"filters"`
	Sort       SortOption        `json:"sort"`
	Page       pagination.Params `json:"page"`
}

// CatalogResult is one page of a listing plus the facet views built for it.
type CatalogResult struct {
	Products      []Product       `json:"products"`
	Total         int             `json:"total"`
	Facets        AvailableFacets `json:"facets"`
	VisibleFacets []FacetKey      `json:"visible_facets"`
	Filters       FilterState     `json:"filters"`
	Sort          SortOption      `json:"sort"`
	Pagination    pagination.Meta `json:"pagination"`
}

// Suggestion is a predictive search hit.
type Suggestion struct {
	Handle   string `json:"handle"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
	Price    string `json:"price"`
	Score    int    `json:"score"`
}

// CatalogSnapshot is a full catalogue as fetched from the shop.
type CatalogSnapshot struct {
	Products  []Product `json:"products"`
	FetchedAt time.Time `json:"fetched_at"`
}
