package http

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/pagination"
)

var (
	queryDecoder = schema.NewDecoder()
	queryEncoder = schema.NewEncoder()
)

func init() {
	queryDecoder.IgnoreUnknownKeys(true)
}

// listingParams is the query string of a listing request. Facet parameters
// may repeat or carry comma-joined values.
type listingParams struct {
	Q          string `schema:"q"`
	Sort       string `schema:"sort"`
	Collection string `schema:"collection"`
	Page       int    `schema:"page"`
	PerPage    int    `schema:"per_page"`

	Department      []string `schema:"department"`
	MeatType        []string `schema:"meatType"`
	CutFamily       []string `schema:"cutFamily"`
	Occasion        []string `schema:"occasion"`
	BulkType        []string `schema:"bulkType"`
	DeliType        []string `schema:"deliType"`
	SpiceFamily     []string `schema:"spiceFamily"`
	BraaiGearFamily []string `schema:"braaiGearFamily"`
	GroceryFamily   []string `schema:"groceryFamily"`
}

func (p listingParams) facets() map[domain.FacetKey][]string {
	return map[domain.FacetKey][]string{
		domain.FacetDepartment:      p.Department,
		domain.FacetMeatType:        p.MeatType,
		domain.FacetCutFamily:       p.CutFamily,
		domain.FacetOccasion:        p.Occasion,
		domain.FacetBulkType:        p.BulkType,
		domain.FacetDeliType:        p.DeliType,
		domain.FacetSpiceFamily:     p.SpiceFamily,
		domain.FacetBraaiGearFamily: p.BraaiGearFamily,
		domain.FacetGroceryFamily:   p.GroceryFamily,
	}
}

// canonicalListing is the normalized form of a listing URL. Each facet holds
// its comma-joined selections; zero values are left out.
type canonicalListing struct {
	Q          string `schema:"q,omitempty"`
	Collection string `schema:"collection,omitempty"`
	Sort       string `schema:"sort,omitempty"`
	Page       int    `schema:"page,omitempty"`
	PerPage    int    `schema:"per_page,omitempty"`

	Department      string `schema:"department,omitempty"`
	MeatType        string `schema:"meatType,omitempty"`
	CutFamily       string `schema:"cutFamily,omitempty"`
	Occasion        string `schema:"occasion,omitempty"`
	BulkType        string `schema:"bulkType,omitempty"`
	DeliType        string `schema:"deliType,omitempty"`
	SpiceFamily     string `schema:"spiceFamily,omitempty"`
	BraaiGearFamily string `schema:"braaiGearFamily,omitempty"`
	GroceryFamily   string `schema:"groceryFamily,omitempty"`
}

// parseListingQuery decodes a listing query string. Facet values are slugged
// and deduplicated here; department consistency is left to the engine.
func parseListingQuery(values url.Values) (*domain.CatalogQuery, error) {
	var p listingParams
	if err := queryDecoder.Decode(&p, values); err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid query parameters: %v", err))
	}

	search := strings.TrimSpace(p.Q)
	return &domain.CatalogQuery{
		Search:     search,
		Collection: strings.TrimSpace(p.Collection),
		Filters:    domain.NewFilterState(p.facets()),
		Sort:       domain.ParseSort(p.Sort, search != ""),
		Page:       pagination.New(p.Page, p.PerPage),
	}, nil
}

// canonicalQuery re-encodes a query with the filters the engine actually
// applied. Defaults are omitted so equal listings share one URL.
func canonicalQuery(q *domain.CatalogQuery, result *domain.CatalogResult) (string, error) {
	c := canonicalListing{
		Q:          q.Search,
		Collection: q.Collection,
	}
	if result.Sort != domain.ParseSort("", q.Search != "") {
		c.Sort = string(result.Sort)
	}
	if result.Pagination.Page > 1 {
		c.Page = result.Pagination.Page
	}
	if result.Pagination.PerPage != pagination.DefaultPerPage {
		c.PerPage = result.Pagination.PerPage
	}

	joined := func(k domain.FacetKey) string { return strings.Join(result.Filters[k], ",") }
	c.Department = joined(domain.FacetDepartment)
	c.MeatType = joined(domain.FacetMeatType)
	c.CutFamily = joined(domain.FacetCutFamily)
	c.Occasion = joined(domain.FacetOccasion)
	c.BulkType = joined(domain.FacetBulkType)
	c.DeliType = joined(domain.FacetDeliType)
	c.SpiceFamily = joined(domain.FacetSpiceFamily)
	c.BraaiGearFamily = joined(domain.FacetBraaiGearFamily)
	c.GroceryFamily = joined(domain.FacetGroceryFamily)

	values := url.Values{}
	if err := queryEncoder.Encode(c, values); err != nil {
		return "", fmt.Errorf("encode canonical query: %w", err)
	}
	return values.Encode(), nil
}

// priceParams is the query string of a price preview request.
type priceParams struct {
	VariantID string `schema:"variant_id"`
	Quantity  int    `schema:"quantity,default:1"`
}

func parsePriceQuery(values url.Values) (priceParams, error) {
	var p priceParams
	if err := queryDecoder.Decode(&p, values); err != nil {
		return p, apperrors.InvalidInput(fmt.Sprintf("invalid query parameters: %v", err))
	}
	return p, nil
}
