package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/engine"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/repository"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
)

// ErrSuperseded is returned by Predictive when a newer request from the same
// session arrived before this one finished.
var ErrSuperseded = errors.New("predictive search superseded")

// CatalogSource fetches the complete catalogue. On failure it may return the
// products fetched so far alongside the error.
type CatalogSource interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// PredictiveConfig tunes search-as-you-type.
type PredictiveConfig struct {
	Debounce time.Duration
	Limit    int
}

// CatalogService serves listings and search from an in-process snapshot that
// is refreshed from the shop.
type CatalogService struct {
	source CatalogSource
	engine engine.CatalogEngine
	cache  repository.CatalogCache
	logger *slog.Logger

	refreshMu sync.Mutex
	now       func() time.Time

	predictive PredictiveConfig
	genMu      sync.Mutex
	latestGen  map[string]uint64
	gen        atomic.Uint64
}

// NewCatalogService creates a catalogue service. cache may be nil.
func NewCatalogService(source CatalogSource, eng engine.CatalogEngine, cache repository.CatalogCache, predictive PredictiveConfig, logger *slog.Logger) *CatalogService {
	if predictive.Limit <= 0 {
		predictive.Limit = 8
	}
	return &CatalogService{
		source:     source,
		engine:     eng,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
		predictive: predictive,
		latestGen:  make(map[string]uint64),
	}
}

// Warm loads the cached snapshot, if any, so listings can be served before
// the first refresh completes.
func (s *CatalogService) Warm(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	snapshot, err := s.cache.Load(ctx)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("load catalog cache: %w", err)
	}
	if err := s.engine.Replace(ctx, snapshot.Products); err != nil {
		return fmt.Errorf("replace catalog from cache: %w", err)
	}
	catalogProducts.Set(float64(len(snapshot.Products)))

	s.logger.InfoContext(ctx, "catalog warmed from cache",
		slog.Int("products", len(snapshot.Products)),
		slog.Time("fetched_at", snapshot.FetchedAt),
	)
	return nil
}

// Refresh fetches the whole catalogue and swaps it in. A partial fetch only
// replaces an empty snapshot, so a flaky page never shrinks a good catalogue.
// Concurrent calls are serialised.
func (s *CatalogService) Refresh(ctx context.Context) error {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := s.now()
	products, err := s.source.ListProducts(ctx)
	if err != nil {
		current, _ := s.engine.Stats()
		if len(products) == 0 || current > 0 {
			catalogRefreshes.WithLabelValues("failed").Inc()
			s.logger.WarnContext(ctx, "catalog refresh failed, keeping current snapshot",
				slog.Int("fetched", len(products)),
				slog.Int("current", current),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("refresh catalog: %w", err)
		}

		if rerr := s.engine.Replace(ctx, products); rerr != nil {
			return fmt.Errorf("replace catalog: %w", rerr)
		}
		catalogProducts.Set(float64(len(products)))
		catalogRefreshes.WithLabelValues("partial").Inc()
		s.logger.WarnContext(ctx, "catalog loaded partially",
			slog.Int("products", len(products)),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if err := s.engine.Replace(ctx, products); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	catalogProducts.Set(float64(len(products)))
	catalogRefreshes.WithLabelValues("ok").Inc()

	if s.cache != nil {
		snapshot := &domain.CatalogSnapshot{Products: products, FetchedAt: start.UTC()}
		if err := s.cache.Store(ctx, snapshot); err != nil {
			s.logger.WarnContext(ctx, "failed to store catalog cache", slog.String("error", err.Error()))
		}
	}

	s.logger.InfoContext(ctx, "catalog refreshed",
		slog.Int("products", len(products)),
		slog.Duration("took", s.now().Sub(start)),
	)
	return nil
}

// RunRefresher refreshes the catalogue every interval until ctx is cancelled.
func (s *CatalogService) RunRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Failures are logged by Refresh; the next tick retries.
			_ = s.Refresh(ctx)
		}
	}
}

// Loaded reports whether a catalogue snapshot is available.
func (s *CatalogService) Loaded() bool {
	count, _ := s.engine.Stats()
	return count > 0
}

// Query runs a listing query.
func (s *CatalogService) Query(ctx context.Context, q *domain.CatalogQuery) (*domain.CatalogResult, error) {
	start := time.Now()
	result, err := s.engine.Query(ctx, q)
	kind := "browse"
	if strings.TrimSpace(q.Search) != "" {
		kind = "search"
	}
	searchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	return result, nil
}

// Product returns a product by handle.
func (s *CatalogService) Product(ctx context.Context, handle string) (*domain.Product, error) {
	if handle == "" {
		return nil, apperrors.InvalidInput("product handle is required")
	}
	return s.engine.Product(ctx, handle)
}

// PricePreview prices qty units of a product variant the way the cart will.
// An empty variantID selects the first variant.
func (s *CatalogService) PricePreview(ctx context.Context, handle, variantID string, qty int) (*domain.LinePrice, error) {
	if qty < 1 || qty > domain.MaxLineQuantity {
		return nil, apperrors.InvalidInput(fmt.Sprintf("quantity must be between 1 and %d", domain.MaxLineQuantity))
	}

	p, err := s.Product(ctx, handle)
	if err != nil {
		return nil, err
	}

	var v domain.Variant
	switch {
	case variantID != "":
		found, ok := p.Variant(variantID)
		if !ok {
			return nil, apperrors.NotFound("variant", variantID)
		}
		v = found
	case len(p.Variants) > 0:
		v = p.Variants[0]
	default:
		return nil, apperrors.NotFound("variant", handle)
	}

	price := domain.PriceLine(p.PricePerKg, v, qty)
	return &price, nil
}

// Predictive returns suggestions for a search-as-you-type query. Each call
// first waits out the debounce delay; if a newer call for the same session
// arrived meanwhile, or arrives before the result is ready, ErrSuperseded is
// returned and the result is discarded.
func (s *CatalogService) Predictive(ctx context.Context, sessionID, query string) ([]domain.Suggestion, error) {
	gen := s.beginGeneration(sessionID)
	defer s.endGeneration(sessionID, gen)

	if s.predictive.Debounce > 0 {
		timer := time.NewTimer(s.predictive.Debounce)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	if !s.isCurrent(sessionID, gen) {
		return nil, ErrSuperseded
	}

	start := time.Now()
	hits, err := s.engine.Suggest(ctx, query, s.predictive.Limit)
	searchDuration.WithLabelValues("predictive").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("predictive search: %w", err)
	}

	if !s.isCurrent(sessionID, gen) {
		return nil, ErrSuperseded
	}
	return hits, nil
}

// Generations come from one global counter, so a session's entry can be
// dropped once its latest request ends without a later request ever
// reusing an in-flight generation.
func (s *CatalogService) beginGeneration(sessionID string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	gen := s.gen.Add(1)
	s.latestGen[sessionID] = gen
	return gen
}

func (s *CatalogService) isCurrent(sessionID string, gen uint64) bool {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.latestGen[sessionID] == gen
}

func (s *CatalogService) endGeneration(sessionID string, gen uint64) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	if s.latestGen[sessionID] == gen {
		delete(s.latestGen, sessionID)
	}
}
