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

const catalogKey = "storefront:catalog:snapshot"

// CatalogCache implements repository.CatalogCache using a single Redis key.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a Redis-backed catalogue cache.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

// Load returns the cached snapshot, or a not found error when there is none.
func (c *CatalogCache) Load(ctx context.Context) (*domain.CatalogSnapshot, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("catalog snapshot", catalogKey)
		}
		return nil, fmt.Errorf("redis get catalog snapshot: %w", err)
	}

	var snapshot domain.CatalogSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal catalog snapshot: %w", err)
	}
	return &snapshot, nil
}

// Store replaces the cached snapshot.
func (c *CatalogCache) Store(ctx context.Context, snapshot *domain.CatalogSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal catalog snapshot: %w", err)
	}

	if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog snapshot: %w", err)
	}
	return nil
}
