package config

import (
	"fmt"
	"strings"
	"time"

	pkgconfig "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort           int      `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	RequestTimeoutSecs int      `env:"HTTP_REQUEST_TIMEOUT_SECONDS" envDefault:"30"`
	ListingMaxAgeSecs  int      `env:"LISTING_CACHE_MAX_AGE_SECONDS" envDefault:"60"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	// Shopper session
	SessionCookieName string `env:"SESSION_COOKIE_NAME" envDefault:"hokaai_session"`
	SessionTTLHours   int    `env:"SESSION_TTL_HOURS" envDefault:"720"`
	SessionSecure     bool   `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	// Shopify Storefront API
	ShopifyStoreDomain string `env:"SHOPIFY_STORE_DOMAIN"`
	ShopifyToken       string `env:"SHOPIFY_STOREFRONT_TOKEN"`
	ShopifyAPIVersion  string `env:"SHOPIFY_API_VERSION" envDefault:"2024-07"`
	ShopifyPageSize    int    `env:"SHOPIFY_PAGE_SIZE" envDefault:"100"`
	ShopifyTimeoutSecs int    `env:"SHOPIFY_TIMEOUT_SECONDS" envDefault:"15"`
	ShopifyMaxRetries  int    `env:"SHOPIFY_MAX_RETRIES" envDefault:"2"`

	// Circuit breaker around the Shopify client
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBIntervalSecs int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeoutSecs  int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Catalogue
	CatalogRefreshMins  int `env:"CATALOG_REFRESH_MINUTES" envDefault:"15"`
	CatalogCacheTTLMins int `env:"CATALOG_CACHE_TTL_MINUTES" envDefault:"60"`

	// Predictive search
	PredictiveDebounceMs int `env:"PREDICTIVE_DEBOUNCE_MS" envDefault:"250"`
	PredictiveLimit      int `env:"PREDICTIVE_LIMIT" envDefault:"8"`

	// Cart
	CartIdentityTTLHours int `env:"CART_IDENTITY_TTL_HOURS" envDefault:"720"`
	CartIdleMins         int `env:"CART_IDLE_MINUTES" envDefault:"30"`

	// Forms
	ContactRateLimitRPS   float64 `env:"CONTACT_RATE_LIMIT_RPS" envDefault:"0.2"`
	ContactRateLimitBurst int     `env:"CONTACT_RATE_LIMIT_BURST" envDefault:"3"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka
	KafkaEnabled       bool     `env:"KAFKA_ENABLED" envDefault:"true"`
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"storefront"`
	EventDedupTTLHours int      `env:"EVENT_DEDUP_TTL_HOURS" envDefault:"24"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks required settings and value ranges.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if strings.TrimSpace(c.ShopifyStoreDomain) == "" {
		return fmt.Errorf("SHOPIFY_STORE_DOMAIN is required")
	}
	if strings.TrimSpace(c.ShopifyToken) == "" {
		return fmt.Errorf("SHOPIFY_STOREFRONT_TOKEN is required")
	}
	if c.ShopifyPageSize < 1 || c.ShopifyPageSize > 250 {
		return fmt.Errorf("SHOPIFY_PAGE_SIZE must be between 1 and 250, got %d", c.ShopifyPageSize)
	}
	if c.CatalogRefreshMins < 1 {
		return fmt.Errorf("CATALOG_REFRESH_MINUTES must be positive, got %d", c.CatalogRefreshMins)
	}
	if c.PredictiveDebounceMs < 0 {
		return fmt.Errorf("PREDICTIVE_DEBOUNCE_MS must not be negative, got %d", c.PredictiveDebounceMs)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.CBFailureRatio)
	}
	if c.ContactRateLimitRPS <= 0 || c.ContactRateLimitBurst < 1 {
		return fmt.Errorf("contact rate limit must allow at least one request")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RequestTimeout is the per-request deadline for non-streaming endpoints.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// SessionTTL is the lifetime of the shopper session cookie.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// CatalogRefreshInterval is the period of the background catalogue refresh.
func (c *Config) CatalogRefreshInterval() time.Duration {
	return time.Duration(c.CatalogRefreshMins) * time.Minute
}

// CatalogCacheTTL is how long a catalogue snapshot stays in Redis.
func (c *Config) CatalogCacheTTL() time.Duration {
	return time.Duration(c.CatalogCacheTTLMins) * time.Minute
}

// PredictiveDebounce is the search-as-you-type settle delay.
func (c *Config) PredictiveDebounce() time.Duration {
	return time.Duration(c.PredictiveDebounceMs) * time.Millisecond
}

// CartIdentityTTL is how long a session remembers its remote cart.
func (c *Config) CartIdentityTTL() time.Duration {
	return time.Duration(c.CartIdentityTTLHours) * time.Hour
}

// CartIdleTTL is how long an unused cart projection stays in memory.
func (c *Config) CartIdleTTL() time.Duration {
	return time.Duration(c.CartIdleMins) * time.Minute
}
