package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/engine/memory"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/repository"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/pagination"
)

// --- Mock CatalogSource ---

type mockSource struct {
	mock.Mock
}

func (m *mockSource) ListProducts(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]domain.Product)
	return products, args.Error(1)
}

// --- Mock CatalogCache ---

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Load(ctx context.Context) (*domain.CatalogSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CatalogSnapshot), args.Error(1)
}

func (m *mockCache) Store(ctx context.Context, snapshot *domain.CatalogSnapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func catalogProduct(pos int, handle, title, dep, meat string) domain.Product {
	return domain.Product{
		ID:         "gid://shopify/Product/" + handle,
		Handle:     handle,
		Title:      title,
		Position:   pos,
		Department: dep,
		MeatType:   meat,
		PriceMin:   decimal.RequireFromString("100.00"),
		Variants: []domain.Variant{{
			ID:         handle + "-v1",
			Title:      "500g",
			Price:      decimal.RequireFromString("100.00"),
			Weight:     decimal.NewFromInt(500),
			WeightUnit: domain.WeightGrams,
		}},
	}
}

func testCatalog() []domain.Product {
	perKg := decimal.NewFromInt(45)
	products := []domain.Product{
		catalogProduct(0, "beef-ribeye-steak", "Beef Ribeye Steak", domain.DepartmentButchery, "beef"),
		catalogProduct(1, "lamb-chops", "Lamb Chops", domain.DepartmentButchery, "lamb"),
		catalogProduct(2, "braai-tongs", "Braai Tongs", domain.DepartmentBraaiGear, ""),
	}
	products[1].PricePerKg = &perKg
	return products
}

func newCatalogFixture(t *testing.T, cache *mockCache, predictive PredictiveConfig) (*CatalogService, *mockSource, *memory.Engine) {
	t.Helper()
	source := new(mockSource)
	eng := memory.New()

	var c repository.CatalogCache
	if cache != nil {
		c = cache
	}
	return NewCatalogService(source, eng, c, predictive, newTestLogger()), source, eng
}

// ============================================================
// Warm / Refresh
// ============================================================

func TestCatalogWarm_FromCache(t *testing.T) {
	cache := new(mockCache)
	cache.On("Load", mock.Anything).Return(&domain.CatalogSnapshot{Products: testCatalog(), FetchedAt: time.Now()}, nil)
	svc, _, eng := newCatalogFixture(t, cache, PredictiveConfig{})

	require.NoError(t, svc.Warm(context.Background()))
	count, _ := eng.Stats()
	assert.Equal(t, 3, count)
	assert.True(t, svc.Loaded())
}

func TestCatalogWarm_EmptyCache(t *testing.T) {
	cache := new(mockCache)
	cache.On("Load", mock.Anything).Return(nil, apperrors.NotFound("catalog snapshot", "k"))
	svc, _, _ := newCatalogFixture(t, cache, PredictiveConfig{})

	require.NoError(t, svc.Warm(context.Background()))
	assert.False(t, svc.Loaded())
}

func TestCatalogWarm_NoCache(t *testing.T) {
	svc, _, _ := newCatalogFixture(t, nil, PredictiveConfig{})
	require.NoError(t, svc.Warm(context.Background()))
}

func TestCatalogRefresh_ReplacesAndCaches(t *testing.T) {
	cache := new(mockCache)
	svc, source, eng := newCatalogFixture(t, cache, PredictiveConfig{})
	source.On("ListProducts", mock.Anything).Return(testCatalog(), nil)
	cache.On("Store", mock.Anything, mock.MatchedBy(func(s *domain.CatalogSnapshot) bool {
		return len(s.Products) == 3 && !s.FetchedAt.IsZero()
	})).Return(nil).Once()

	require.NoError(t, svc.Refresh(context.Background()))
	count, _ := eng.Stats()
	assert.Equal(t, 3, count)
	cache.AssertExpectations(t)
}

func TestCatalogRefresh_CacheFailureIsNotFatal(t *testing.T) {
	cache := new(mockCache)
	svc, source, _ := newCatalogFixture(t, cache, PredictiveConfig{})
	source.On("ListProducts", mock.Anything).Return(testCatalog(), nil)
	cache.On("Store", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	require.NoError(t, svc.Refresh(context.Background()))
	assert.True(t, svc.Loaded())
}

func TestCatalogRefresh_PartialFillsEmptyCatalog(t *testing.T) {
	cache := new(mockCache)
	svc, source, eng := newCatalogFixture(t, cache, PredictiveConfig{})
	source.On("ListProducts", mock.Anything).Return(testCatalog()[:2], errors.New("page 2 failed"))

	require.NoError(t, svc.Refresh(context.Background()))
	count, _ := eng.Stats()
	assert.Equal(t, 2, count)
	cache.AssertNotCalled(t, "Store", mock.Anything, mock.Anything)
}

func TestCatalogRefresh_PartialKeepsLoadedCatalog(t *testing.T) {
	svc, source, eng := newCatalogFixture(t, nil, PredictiveConfig{})
	require.NoError(t, eng.Replace(context.Background(), testCatalog()))
	source.On("ListProducts", mock.Anything).Return(testCatalog()[:1], errors.New("page 2 failed"))

	err := svc.Refresh(context.Background())
	require.Error(t, err)
	count, _ := eng.Stats()
	assert.Equal(t, 3, count)
}

func TestCatalogRefresh_TotalFailure(t *testing.T) {
	svc, source, _ := newCatalogFixture(t, nil, PredictiveConfig{})
	source.On("ListProducts", mock.Anything).Return(nil, apperrors.ServiceUnavailable("down"))

	err := svc.Refresh(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrServiceUnavail))
	assert.False(t, svc.Loaded())
}

// ============================================================
// Query / Product / PricePreview
// ============================================================

func TestCatalogQuery(t *testing.T) {
	svc, _, eng := newCatalogFixture(t, nil, PredictiveConfig{})
	require.NoError(t, eng.Replace(context.Background(), testCatalog()))

	result, err := svc.Query(context.Background(), &domain.CatalogQuery{
		Filters: domain.FilterState{domain.FacetMeatType: {"lamb"}},
		Page:    pagination.New(1, 24),
	})
	require.NoError(t, err)
	require.Len(t, result.Products, 1)
	assert.Equal(t, "lamb-chops", result.Products[0].Handle)
	assert.Equal(t, []string{domain.DepartmentButchery}, result.Filters[domain.FacetDepartment])
}

func TestCatalogProduct(t *testing.T) {
	svc, _, eng := newCatalogFixture(t, nil, PredictiveConfig{})
	require.NoError(t, eng.Replace(context.Background(), testCatalog()))

	p, err := svc.Product(context.Background(), "braai-tongs")
	require.NoError(t, err)
	assert.Equal(t, "Braai Tongs", p.Title)

	_, err = svc.Product(context.Background(), "nope")
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.Product(context.Background(), "")
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

func TestPricePreview(t *testing.T) {
	svc, _, eng := newCatalogFixture(t, nil, PredictiveConfig{})
	require.NoError(t, eng.Replace(context.Background(), testCatalog()))
	ctx := context.Background()

	perKg, err := svc.PricePreview(ctx, "lamb-chops", "lamb-chops-v1", 2)
	require.NoError(t, err)
	assert.Equal(t, domain.PricingPerKg, perKg.Mode)
	assert.Equal(t, "45.00", perKg.Total.StringFixed(2))

	unit, err := svc.PricePreview(ctx, "braai-tongs", "", 3)
	require.NoError(t, err)
	assert.Equal(t, domain.PricingUnit, unit.Mode)
	assert.Equal(t, "300.00", unit.Total.StringFixed(2))

	_, err = svc.PricePreview(ctx, "braai-tongs", "missing", 1)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = svc.PricePreview(ctx, "braai-tongs", "", 0)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
}

// ============================================================
// Predictive
// ============================================================

func TestPredictive_ReturnsHits(t *testing.T) {
	svc, _, eng := newCatalogFixture(t, nil, PredictiveConfig{Limit: 5})
	require.NoError(t, eng.Replace(context.Background(), testCatalog()))

	hits, err := svc.Predictive(context.Background(), "sess-1", "ribeye")
	require.NoError(t, err)
	require.NotEmpty(t, hits)
	assert.Equal(t, "beef-ribeye-steak", hits[0].Handle)
	assert.Empty(t, svc.latestGen)
}

func TestPredictive_NewerRequestSupersedes(t *testing.T) {
	svc, _, eng := newCatalogFixture(t, nil, PredictiveConfig{Debounce: 80 * time.Millisecond})
	require.NoError(t, eng.Replace(context.Background(), testCatalog()))

	type result struct {
		hits []domain.Suggestion
		err  error
	}
	first := make(chan result, 1)
	go func() {
		hits, err := svc.Predictive(context.Background(), "sess-1", "rib")
		first <- result{hits, err}
	}()

	time.Sleep(20 * time.Millisecond)
	hits, err := svc.Predictive(context.Background(), "sess-1", "ribeye")
	require.NoError(t, err)
	assert.Equal(t, "beef-ribeye-steak", hits[0].Handle)

	stale := <-first
	assert.ErrorIs(t, stale.err, ErrSuperseded)
	assert.Nil(t, stale.hits)
}

func TestPredictive_LatestGenerationWinsUnderContention(t *testing.T) {
	svc, _, _ := newCatalogFixture(t, nil, PredictiveConfig{})

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.beginGeneration("sess-1")
		}()
	}
	wg.Wait()

	last := svc.gen.Load()
	assert.Equal(t, uint64(64), last)
	assert.True(t, svc.isCurrent("sess-1", last), "the highest generation handed out must be the current one")
}

func TestPredictive_SessionsAreIndependent(t *testing.T) {
	svc, _, eng := newCatalogFixture(t, nil, PredictiveConfig{Debounce: 30 * time.Millisecond})
	require.NoError(t, eng.Replace(context.Background(), testCatalog()))

	errs := make(chan error, 2)
	for _, sess := range []string{"sess-1", "sess-2"} {
		go func() {
			_, err := svc.Predictive(context.Background(), sess, "lamb")
			errs <- err
		}()
	}
	assert.NoError(t, <-errs)
	assert.NoError(t, <-errs)
}

func TestPredictive_ContextCancelled(t *testing.T) {
	svc, _, _ := newCatalogFixture(t, nil, PredictiveConfig{Debounce: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Predictive(ctx, "sess-1", "beef")
	assert.ErrorIs(t, err, context.Canceled)
}
