package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	pkgkafka "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/kafka"
)

// CatalogChangedData is the payload of a catalog.changed event. Handles is
// informational; any change triggers a full refresh.
type CatalogChangedData struct {
	Handles []string `json:"handles,omitempty"`
	Reason  string   `json:"reason,omitempty"`
}

// CatalogRefresher reloads the catalogue from the shop.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// Consumer handles catalogue change notifications.
type Consumer struct {
	catalog CatalogRefresher
	logger  *slog.Logger
}

// NewConsumer creates a consumer that refreshes catalog on every change event.
func NewConsumer(catalog CatalogRefresher, logger *slog.Logger) *Consumer {
	return &Consumer{
		catalog: catalog,
		logger:  logger,
	}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.EventType {
	case TopicCatalogChanged:
		return c.handleCatalogChanged(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
		)
		return nil
	}
}

func (c *Consumer) handleCatalogChanged(ctx context.Context, event *pkgkafka.Event) error {
	var data CatalogChangedData
	if len(event.Data) > 0 && string(event.Data) != "null" {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return fmt.Errorf("unmarshal catalog.changed data: %w", err)
		}
	}

	if err := c.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh catalog from changed event: %w", err)
	}

	c.logger.InfoContext(ctx, "catalog refreshed from changed event",
		slog.String("event_id", event.EventID),
		slog.String("reason", data.Reason),
		slog.Int("handles", len(data.Handles)),
	)
	return nil
}
