package repository

import (
	"context"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
)

// IdentityRepository remembers which remote cart belongs to a shopper session.
// The stored identity is a cache of the remote cart, never authoritative on its own.
type IdentityRepository interface {
	// Get returns the identity stored for a session, or a not found error.
	Get(ctx context.Context, sessionID string) (*domain.CartIdentity, error)

	// Save overwrites the identity for a session and refreshes its TTL.
	Save(ctx context.Context, sessionID string, identity domain.CartIdentity) error

	// Delete forgets the identity for a session.
	Delete(ctx context.Context, sessionID string) error
}

// CatalogCache keeps the last fetched catalogue so a restart can serve
// listings before the first refresh finishes.
type CatalogCache interface {
	Load(ctx context.Context) (*domain.CatalogSnapshot, error)
	Store(ctx context.Context, snapshot *domain.CatalogSnapshot) error
}
