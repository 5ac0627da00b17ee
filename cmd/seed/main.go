// Command seed writes a synthetic catalogue snapshot into the Redis catalogue
// cache, giving a local storefront a warm catalogue without a Shopify store.
//
// Run: go run ./cmd/seed
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	redisrepo "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/repository/redis"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/seed"
	pkgconfig "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/config"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/database"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/logger"
)

type config struct {
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`
	Products  int    `env:"SEED_PRODUCTS" envDefault:"1000"`
	Seed      uint64 `env:"SEED_VALUE" envDefault:"42"`
	TTLMins   int    `env:"CATALOG_CACHE_TTL_MINUTES" envDefault:"60"`
}

func main() {
	var cfg config
	if err := pkgconfig.Load(&cfg); err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("storefront-seed", cfg.LogLevel)
	slog.SetDefault(log)

	if cfg.Products <= 0 {
		log.Error("SEED_PRODUCTS must be positive", slog.Int("products", cfg.Products))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = cfg.RedisAddr
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB
	rdb, err := database.NewRedisClient(ctx, redisCfg, log)
	if err != nil {
		log.Error("failed to connect to redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer rdb.Close()

	now := time.Now().UTC()
	products := seed.Generate(cfg.Products, cfg.Seed, now)
	log.Info("generated catalogue", slog.Int("products", len(products)), slog.Uint64("seed", cfg.Seed))

	cache := redisrepo.NewCatalogCache(rdb, time.Duration(cfg.TTLMins)*time.Minute)
	if err := cache.Store(ctx, &domain.CatalogSnapshot{Products: products, FetchedAt: now}); err != nil {
		log.Error("failed to store catalogue snapshot", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("catalogue snapshot stored", slog.String("redis", cfg.RedisAddr))
}
