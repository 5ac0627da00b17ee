package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// SlowThreshold logs commands slower than this as warnings. Zero disables it.
	SlowThreshold time.Duration
}

// DefaultRedisConfig returns defaults for a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:          "localhost:6379",
		PoolSize:      20,
		DialTimeout:   3 * time.Second,
		ReadTimeout:   time.Second,
		WriteTimeout:  time.Second,
		SlowThreshold: 50 * time.Millisecond,
	}
}

// NewRedisClient creates a traced client and verifies the connection.
func NewRedisClient(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	client.AddHook(newTracingHook(cfg.SlowThreshold, logger))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
