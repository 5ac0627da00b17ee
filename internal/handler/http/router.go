package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/service"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/health"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/middleware"
)

// Services are the application services the router exposes.
type Services struct {
	Catalog *service.CatalogService
	Cart    *service.CartService
	Contact *service.ContactService
}

// RouterConfig holds the HTTP-facing settings.
type RouterConfig struct {
	ServiceName    string
	Session        SessionConfig
	CORSOrigins    []string
	PprofCIDRs     []string
	RequestTimeout time.Duration
	// ListingMaxAge is the shared-cache lifetime of catalogue responses, in seconds.
	ListingMaxAge int
	// StreamsDone ends open cart event streams when closed. May be nil.
	StreamsDone <-chan struct{}
}

// NewRouter creates a chi router with all storefront routes registered.
// formLimiter may be nil to leave form submissions unthrottled.
func NewRouter(
	svcs Services,
	healthHandler *health.Handler,
	formLimiter *middleware.RateLimiter,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "storefront"
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chimw.Compress(5))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)
	cartHandler := NewCartHandler(svcs.Cart, logger)
	cartHandler.done = cfg.StreamsDone
	contactHandler := NewContactHandler(svcs.Contact, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalogue responses are the same for every shopper and carry no cookie.
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(cfg.RequestTimeout))
			r.Use(middleware.RequestLogger(logger))
			r.Use(middleware.CacheControl(cfg.ListingMaxAge, cfg.ListingMaxAge*5))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{handle}", catalogHandler.GetProduct)
			r.Get("/products/{handle}/price", catalogHandler.PricePreview)
		})

		// Shopper-scoped endpoints.
		r.Group(func(r chi.Router) {
			r.Use(Session(cfg.Session))
			r.Use(middleware.RequestLogger(logger))
			r.Use(middleware.NoStore)

			r.Get("/cart/events", cartHandler.Events)

			r.Group(func(r chi.Router) {
				r.Use(chimw.Timeout(cfg.RequestTimeout))

				r.Get("/search/predictive", catalogHandler.Predictive)

				r.Get("/cart", cartHandler.GetCart)
				r.Delete("/cart", cartHandler.ClearCart)
				r.Post("/cart/open", cartHandler.OpenCart)
				r.Post("/cart/close", cartHandler.CloseCart)
				r.Post("/cart/lines", cartHandler.AddLines)
				r.Patch("/cart/lines/{lineId}", cartHandler.UpdateLine)
				r.Delete("/cart/lines/{lineId}", cartHandler.RemoveLine)

				r.Group(func(r chi.Router) {
					if formLimiter != nil {
						r.Use(formLimiter.Middleware)
					}
					r.Post("/forms/{kind}", contactHandler.Submit)
				})
			})
		})
	})

	return r
}
