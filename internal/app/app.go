package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/cart"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/client/shopify"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/config"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/engine/memory"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/event"
	handler "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/handler/http"
	redisrepo "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/repository/redis"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/service"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/database"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/health"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/httpclient"
	pkgkafka "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/kafka"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/middleware"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/tracing"
)

const serviceName = "storefront"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	consumers      []*pkgkafka.Consumer
	catalog        *service.CatalogService
	hub            *cart.Hub
	limiter        *middleware.RateLimiter
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing first so every client below picks up the global provider.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTELEndpoint,
		SampleRate:   cfg.OTELSampleRate,
		Enabled:      cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	// Initialize Redis client.
	redisCfg := database.DefaultRedisConfig()
	redisCfg.Addr = cfg.RedisAddr
	redisCfg.Password = cfg.RedisPass
	redisCfg.DB = cfg.RedisDB
	rdb, err := database.NewRedisClient(ctx, redisCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, rdb, serviceName); err != nil {
		logger.Warn("redis pool metrics not registered", slog.String("error", err.Error()))
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Shopify client behind retries and a circuit breaker.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = time.Duration(cfg.ShopifyTimeoutSecs) * time.Second
	httpCfg.MaxRetries = cfg.ShopifyMaxRetries
	breaker := httpclient.NewCircuitBreakerClient(httpclient.New(httpCfg), httpclient.CircuitBreakerConfig{
		Name:         "shopify",
		MaxRequests:  cfg.CBMaxRequests,
		Interval:     time.Duration(cfg.CBIntervalSecs) * time.Second,
		Timeout:      time.Duration(cfg.CBTimeoutSecs) * time.Second,
		FailureRatio: cfg.CBFailureRatio,
		MinRequests:  cfg.CBMinRequests,
	}, logger)
	shop := shopify.New(breaker, shopify.Config{
		StoreDomain: cfg.ShopifyStoreDomain,
		Token:       cfg.ShopifyToken,
		APIVersion:  cfg.ShopifyAPIVersion,
		PageSize:    cfg.ShopifyPageSize,
	}, logger)
	logger.Info("shopify client initialized",
		slog.String("store", cfg.ShopifyStoreDomain),
		slog.String("api_version", cfg.ShopifyAPIVersion),
	)

	// Kafka producer, or a no-op publisher when Kafka is disabled.
	var producer *pkgkafka.Producer
	var publisher pkgkafka.Publisher = pkgkafka.NopPublisher{}
	if cfg.KafkaEnabled {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		publisher = producer
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Warn("kafka disabled, storefront events are dropped")
	}
	eventProducer := event.NewProducer(publisher, logger)

	// Build the dependency graph.
	catalogService := service.NewCatalogService(
		shop,
		memory.New(),
		redisrepo.NewCatalogCache(rdb, cfg.CatalogCacheTTL()),
		service.PredictiveConfig{Debounce: cfg.PredictiveDebounce(), Limit: cfg.PredictiveLimit},
		logger,
	)
	hub := cart.NewHub(cfg.CartIdleTTL())
	cartService := service.NewCartService(
		shop,
		redisrepo.NewIdentityRepository(rdb, cfg.CartIdentityTTL()),
		hub,
		eventProducer,
		logger,
	)
	contactService := service.NewContactService(eventProducer, logger)

	// Kafka consumer for catalogue change notifications.
	var consumers []*pkgkafka.Consumer
	if cfg.KafkaEnabled {
		eventConsumer := event.NewConsumer(catalogService, logger)
		dedup := redisrepo.NewIdempotencyStore(rdb, time.Duration(cfg.EventDedupTTLHours)*time.Hour)
		consumerCfg := pkgkafka.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			GroupID:  cfg.KafkaConsumerGroup,
			Topic:    event.TopicCatalogChanged,
			MinBytes: 1,
			MaxBytes: 1e6, // 1 MB
		}
		consumers = append(consumers, pkgkafka.NewConsumer(
			consumerCfg,
			pkgkafka.IdempotentHandler(dedup, eventConsumer.Handle, logger),
			logger,
		))
		logger.Info("kafka consumer initialized", slog.String("topic", event.TopicCatalogChanged))
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	healthHandler.Register("catalog", func(context.Context) error {
		if !catalogService.Loaded() {
			return errors.New("catalog not loaded")
		}
		return nil
	})
	healthHandler.RegisterOptional("shopify", shop.Ping)
	if producer != nil {
		healthHandler.RegisterOptional("kafka", producer.Ping)
	}

	limiter := middleware.NewRateLimiter(cfg.ContactRateLimitRPS, cfg.ContactRateLimitBurst, logger)
	streamsDone := make(chan struct{})

	// HTTP router.
	router := handler.NewRouter(
		handler.Services{Catalog: catalogService, Cart: cartService, Contact: contactService},
		healthHandler,
		limiter,
		handler.RouterConfig{
			ServiceName: serviceName,
			Session: handler.SessionConfig{
				CookieName: cfg.SessionCookieName,
				MaxAge:     cfg.SessionTTL(),
				Secure:     cfg.SessionSecure || cfg.IsProduction(),
			},
			CORSOrigins:    cfg.CORSAllowedOrigins,
			PprofCIDRs:     cfg.PprofAllowedCIDRs,
			RequestTimeout: cfg.RequestTimeout(),
			ListingMaxAge:  cfg.ListingMaxAgeSecs,
			StreamsDone:    streamsDone,
		},
		logger,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	// Cart streams never go idle, so Shutdown would otherwise wait them out.
	var closeStreams sync.Once
	httpServer.RegisterOnShutdown(func() {
		closeStreams.Do(func() { close(streamsDone) })
	})

	return &App{
		cfg:            cfg,
		logger:         logger,
		rdb:            rdb,
		producer:       producer,
		consumers:      consumers,
		catalog:        catalogService,
		hub:            hub,
		limiter:        limiter,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run loads the catalogue, starts the background workers, Kafka consumers and
// HTTP server, and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1+len(a.consumers))

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()
	var wg sync.WaitGroup

	// Serve the cached catalogue straight away; the first refresh replaces it.
	if err := a.catalog.Warm(ctx); err != nil {
		a.logger.Warn("catalog cache unavailable", slog.String("error", err.Error()))
	}

	background := []func(context.Context){
		func(ctx context.Context) {
			// Failures are logged by Refresh and retried on the next tick.
			_ = a.catalog.Refresh(ctx)
			a.catalog.RunRefresher(ctx, a.cfg.CatalogRefreshInterval())
		},
		a.hub.Run,
		a.limiter.Run,
	}
	for _, run := range background {
		wg.Add(1)
		go func() {
			defer wg.Done()
			run(bgCtx)
		}()
	}

	// Start Kafka consumers in background goroutines.
	for _, c := range a.consumers {
		go func() {
			if err := c.Start(bgCtx); err != nil {
				errCh <- fmt.Errorf("kafka consumer: %w", err)
			}
		}()
	}

	// Start HTTP server.
	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
	}

	stopBackground()
	wg.Wait()

	return errors.Join(runErr, a.Shutdown())
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Close Kafka consumers.
	for _, c := range a.consumers {
		if err := c.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// Close Kafka producer.
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	// Flush pending spans.
	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Close Redis client.
	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
