// Package shopify talks to the Shopify Storefront GraphQL API, which serves
// as both the catalogue source and the remote cart.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	apperrors "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/errors"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/httpclient"
)

const (
	upstreamName   = "shopify"
	tokenHeader    = "X-Shopify-Storefront-Access-Token"
	maxPageSize    = 250
	maxProductPage = 200
)

// Config holds the storefront API coordinates.
type Config struct {
	StoreDomain string
	Token       string
	APIVersion  string
	PageSize    int
}

// Endpoint returns the GraphQL URL for the store.
func (c Config) Endpoint() string {
	scheme, host := "https://", c.StoreDomain
	if rest, ok := strings.CutPrefix(host, "http://"); ok {
		scheme, host = "http://", rest
	}
	host = strings.TrimSuffix(strings.TrimPrefix(host, "https://"), "/")
	return fmt.Sprintf("%s%s/api/%s/graphql.json", scheme, host, c.APIVersion)
}

// Client is a Storefront API client. Requests go through the given Doer,
// normally a circuit breaker wrapping a retrying HTTP client.
type Client struct {
	doer     httpclient.Doer
	endpoint string
	token    string
	pageSize int
	logger   *slog.Logger
	tracer   trace.Tracer
}

// New creates a Storefront API client.
func New(doer httpclient.Doer, cfg Config, logger *slog.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = 100
	}
	return &Client{
		doer:     doer,
		endpoint: cfg.Endpoint(),
		token:    cfg.Token,
		pageSize: pageSize,
		logger:   logger,
		tracer:   otel.Tracer("storefront/shopify"),
	}
}

// execute runs one GraphQL operation and decodes its data into out.
func (c *Client) execute(ctx context.Context, op, query string, vars map[string]any, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "shopify."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("graphql.operation.name", op)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	body, err := json.Marshal(graphqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("shopify %s: marshal request: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("shopify %s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(tokenHeader, c.token)

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		c.logger.WarnContext(ctx, "shopify request failed",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("shopify %s: %w", op, err)
		}
		return fmt.Errorf("shopify %s: %w", op, apperrors.ServiceUnavailable("the shop is temporarily unavailable"))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("shopify %s: %w", op, httpclient.ParseResponseError(resp, upstreamName))
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("shopify %s: decode response: %w", op, err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("shopify %s: %w", op, graphqlErrors(envelope.Errors))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("shopify %s: decode data: %w", op, err)
	}
	return nil
}

func graphqlErrors(errs []graphqlError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if e.Extensions.Code == "THROTTLED" {
			return apperrors.RateLimited("shopify: " + e.Message)
		}
		msgs = append(msgs, e.Message)
	}
	return apperrors.Internal(fmt.Errorf("graphql: %s", strings.Join(msgs, "; ")))
}

// Ping runs a trivial query to confirm the API answers.
func (c *Client) Ping(ctx context.Context) error {
	return c.execute(ctx, "Shop", shopQuery, nil, nil)
}

// ListProducts pages through the whole catalogue. When a page fails the
// products fetched so far are returned together with the error.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var (
		products []domain.Product
		cursor   *string
	)

	for page := 0; page < maxProductPage; page++ {
		vars := map[string]any{"first": c.pageSize}
		if cursor != nil {
			vars["after"] = *cursor
		}

		var data productsData
		if err := c.execute(ctx, "Products", productsQuery, vars, &data); err != nil {
			return products, fmt.Errorf("list products page %d: %w", page+1, err)
		}

		for _, n := range data.Products.Nodes {
			products = append(products, n.toDomain(len(products)))
		}

		info := data.Products.PageInfo
		if !info.HasNextPage || info.EndCursor == "" {
			return products, nil
		}
		next := info.EndCursor
		cursor = &next
	}

	c.logger.WarnContext(ctx, "catalogue paging stopped at page limit", slog.Int("pages", maxProductPage))
	return products, nil
}

// GetCart fetches a cart. An unknown or expired cart is reported as not found.
func (c *Client) GetCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	var data struct {
		Cart *cartNode `json:"cart"`
	}
	if err := c.execute(ctx, "Cart", cartQuery, map[string]any{"id": cartID}, &data); err != nil {
		return nil, err
	}
	if data.Cart == nil {
		return nil, apperrors.NotFound("cart", cartID)
	}
	return data.Cart.toDomain(), nil
}

// CreateCart creates a cart holding lines.
func (c *Client) CreateCart(ctx context.Context, lines []domain.LineInput) (*domain.Cart, error) {
	vars := map[string]any{"input": map[string]any{"lines": toLineInputs(lines)}}
	return c.mutate(ctx, "cartCreate", cartCreateMutation, vars, "")
}

// AddLines adds lines to a cart.
func (c *Client) AddLines(ctx context.Context, cartID string, lines []domain.LineInput) (*domain.Cart, error) {
	vars := map[string]any{"cartId": cartID, "lines": toLineInputs(lines)}
	return c.mutate(ctx, "cartLinesAdd", cartLinesAddMutation, vars, cartID)
}

// UpdateLines sets line quantities.
func (c *Client) UpdateLines(ctx context.Context, cartID string, updates []domain.LineUpdate) (*domain.Cart, error) {
	lines := make([]cartLineUpdateInput, 0, len(updates))
	for _, u := range updates {
		lines = append(lines, cartLineUpdateInput{ID: u.LineID, Quantity: u.Quantity})
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	return c.mutate(ctx, "cartLinesUpdate", cartLinesUpdateMutation, vars, cartID)
}

// RemoveLines removes lines from a cart.
func (c *Client) RemoveLines(ctx context.Context, cartID string, lineIDs []string) (*domain.Cart, error) {
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	return c.mutate(ctx, "cartLinesRemove", cartLinesRemoveMutation, vars, cartID)
}

// ClearCart removes every line. The Storefront API has no single call for
// this, so the cart is read first.
func (c *Client) ClearCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := c.GetCart(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return cart, nil
	}
	ids := make([]string, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		ids = append(ids, l.ID)
	}
	return c.RemoveLines(ctx, cartID, ids)
}

func (c *Client) mutate(ctx context.Context, field, mutation string, vars map[string]any, cartID string) (*domain.Cart, error) {
	var data map[string]cartPayload
	if err := c.execute(ctx, field, mutation, vars, &data); err != nil {
		return nil, err
	}

	payload := data[field]
	if err := userErrors(payload.UserErrors, cartID); err != nil {
		return nil, fmt.Errorf("shopify %s: %w", field, err)
	}
	if payload.Cart == nil {
		return nil, fmt.Errorf("shopify %s: %w", field, apperrors.NotFound("cart", cartID))
	}
	return payload.Cart.toDomain(), nil
}

// userErrors maps mutation user errors. Errors against the cart id itself
// mean the cart no longer exists; anything else is a rejected input.
func userErrors(errs []userError, cartID string) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 && e.Field[0] == "cartId" {
			return apperrors.NotFound("cart", cartID)
		}
		msgs = append(msgs, e.Message)
	}
	return apperrors.InvalidInput(strings.Join(msgs, "; "))
}
