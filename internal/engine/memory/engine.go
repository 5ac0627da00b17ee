package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/engine/rank"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/pagination"
)

// Engine is an in-memory implementation of the CatalogEngine interface.
// The snapshot is replaced wholesale and never mutated in place, so readers
// can keep using a slice after releasing the lock.
// Thread-safe via sync.RWMutex.
type Engine struct {
	mu       sync.RWMutex
	products []domain.Product
	byHandle map[string]int
	loadedAt time.Time
}

// New creates a new, empty in-memory catalogue engine.
func New() *Engine {
	return &Engine{byHandle: make(map[string]int)}
}

// Replace swaps the catalogue snapshot.
func (e *Engine) Replace(_ context.Context, products []domain.Product) error {
	snapshot := make([]domain.Product, len(products))
	copy(snapshot, products)

	byHandle := make(map[string]int, len(snapshot))
	for i, p := range snapshot {
		byHandle[p.Handle] = i
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.products = snapshot
	e.byHandle = byHandle
	e.loadedAt = time.Now().UTC()
	return nil
}

func (e *Engine) snapshot() []domain.Product {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.products
}

// Query executes a listing query against the snapshot.
func (e *Engine) Query(_ context.Context, query *domain.CatalogQuery) (*domain.CatalogResult, error) {
	candidates := rank.Search(e.snapshot(), query.Search)

	if query.Collection != "" {
		narrowed := make([]domain.Product, 0, len(candidates))
		for _, p := range candidates {
			if p.InCollection(query.Collection) {
				narrowed = append(narrowed, p)
			}
		}
		candidates = narrowed
	}

	// Counts describe what the shopper could still pick, so they come from
	// the set before facet filters apply.
	facets := domain.BuildAvailableFacets(candidates)

	filters := domain.Sanitize(query.Filters)
	matched := domain.Filter(candidates, filters)

	sortBy := query.Sort
	if sortBy == "" {
		sortBy = domain.ParseSort("", strings.TrimSpace(query.Search) != "")
	}
	domain.SortProducts(matched, sortBy)

	page := pagination.New(query.Page.Page, query.Page.PerPage)
	lo, hi := page.Bounds(len(matched))

	return &domain.CatalogResult{
		Products:      matched[lo:hi],
		Total:         len(matched),
		Facets:        facets,
		VisibleFacets: domain.VisibleFacetGroups(filters.Department()),
		Filters:       filters,
		Sort:          sortBy,
		Pagination:    pagination.NewMeta(len(matched), page),
	}, nil
}

// Product returns the product with the given handle.
func (e *Engine) Product(_ context.Context, handle string) (*domain.Product, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i, ok := e.byHandle[handle]
	if !ok {
		return nil, apperrors.NotFound("product", handle)
	}
	p := e.products[i]
	return &p, nil
}

// Suggest returns the best ranked products for a predictive search.
func (e *Engine) Suggest(_ context.Context, query string, limit int) ([]domain.Suggestion, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.Suggestion{}, nil
	}
	if limit <= 0 {
		limit = 8
	}

	entries := rank.Rank(e.snapshot(), query)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	out := make([]domain.Suggestion, 0, len(entries))
	for _, en := range entries {
		s := domain.Suggestion{
			Handle: en.Product.Handle,
			Title:  en.Product.Title,
			Price:  en.Product.PriceMin.StringFixed(2),
			Score:  en.Score,
		}
		if len(en.Product.Images) > 0 {
			s.ImageURL = en.Product.Images[0].URL
		}
		out = append(out, s)
	}
	return out, nil
}

// Stats reports the snapshot size and load time.
func (e *Engine) Stats() (int, time.Time) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.products), e.loadedAt
}
