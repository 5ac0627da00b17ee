package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/service"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/httputil"
)

// CatalogHandler handles HTTP requests for listing, product and search endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Response DTOs ---

// ListingResponse is a page of products with the URL that reproduces it.
type ListingResponse struct {
	*domain.CatalogResult
	CanonicalQuery string `json:"canonical_query"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query, err := parseListingQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	result, err := h.service.Query(r.Context(), query)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	canonical, err := canonicalQuery(query, result)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, ListingResponse{CatalogResult: result, CanonicalQuery: canonical})
}

// GetProduct handles GET /api/v1/products/{handle}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Product(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, product)
}

// PricePreview handles GET /api/v1/products/{handle}/price
func (h *CatalogHandler) PricePreview(w http.ResponseWriter, r *http.Request) {
	params, err := parsePriceQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	price, err := h.service.PricePreview(r.Context(), chi.URLParam(r, "handle"), params.VariantID, params.Quantity)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, price)
}

// Predictive handles GET /api/v1/search/predictive
//
// A request overtaken by a newer one from the same session answers 204 so the
// client never renders stale suggestions.
func (h *CatalogHandler) Predictive(w http.ResponseWriter, r *http.Request) {
	hits, err := h.service.Predictive(r.Context(), sessionID(r), r.URL.Query().Get("q"))
	switch {
	case errors.Is(err, service.ErrSuperseded):
		w.WriteHeader(http.StatusNoContent)
		return
	case err != nil:
		if r.Context().Err() != nil {
			// Client went away while debouncing.
			return
		}
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, hits)
}
