package engine

import (
	"context"
	"time"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

// CatalogEngine holds a catalogue snapshot and answers listing and search
// queries against it.
type CatalogEngine interface {
	// Replace swaps the whole snapshot. Products keep the order given.
	Replace(ctx context.Context, products []domain.Product) error

	// Query runs search, collection narrowing, facet counting, filtering,
	// sorting and pagination.
	Query(ctx context.Context, query *domain.CatalogQuery) (*domain.CatalogResult, error)

	// Product returns the product with the given handle.
	Product(ctx context.Context, handle string) (*domain.Product, error)

	// Suggest returns at most limit ranked hits for a predictive search.
	Suggest(ctx context.Context, query string, limit int) ([]domain.Suggestion, error)

	// Stats reports the snapshot size and when it was last replaced.
	Stats() (count int, loadedAt time.Time)
}
