package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const processedKeyPrefix = "storefront:processed-event:"

// IdempotencyStore records processed Kafka event IDs for kafka.IdempotentHandler.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates a store whose entries expire after ttl.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		ttl:    ttl,
	}
}

// Contains reports whether eventID was already recorded.
func (s *IdempotencyStore) Contains(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, processedKeyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists processed event: %w", err)
	}
	return n > 0, nil
}

// Add records eventID.
func (s *IdempotencyStore) Add(ctx context.Context, eventID string) error {
	if err := s.client.SetNX(ctx, processedKeyPrefix+eventID, 1, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis setnx processed event: %w", err)
	}
	return nil
}
