package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
)

const identityKeyPrefix = "storefront:cart-identity:"

// IdentityRepository implements repository.IdentityRepository using Redis.
type IdentityRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdentityRepository creates a Redis-backed identity repository.
func NewIdentityRepository(client *redis.Client, ttl time.Duration) *IdentityRepository {
	return &IdentityRepository{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cart identity for a session.
func (r *IdentityRepository) Get(ctx context.Context, sessionID string) (*domain.CartIdentity, error) {
	data, err := r.client.Get(ctx, identityKeyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cart identity", sessionID)
		}
		return nil, fmt.Errorf("redis get cart identity: %w", err)
	}

	var identity domain.CartIdentity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, fmt.Errorf("unmarshal cart identity: %w", err)
	}
	if identity.CartID == "" {
		return nil, apperrors.NotFound("cart identity", sessionID)
	}
	return &identity, nil
}

// Save persists the identity with the configured TTL.
func (r *IdentityRepository) Save(ctx context.Context, sessionID string, identity domain.CartIdentity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("marshal cart identity: %w", err)
	}

	if err := r.client.Set(ctx, identityKeyPrefix+sessionID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart identity: %w", err)
	}
	return nil
}

// Delete removes the identity for a session.
func (r *IdentityRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, identityKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del cart identity: %w", err)
	}
	return nil
}
