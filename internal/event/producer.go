package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/internal/domain"
	pkgkafka "github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/kafka"
	"github.com/Chainsaw-Media-Marketing/hokaai-headless-sub000/pkg/logger"
)

// Event types published and consumed by the storefront. Each type is also the topic name.
var (
	TopicCartHydrated     = pkgkafka.Topic("cart", "hydrated")
	TopicContactSubmitted = pkgkafka.Topic("contact", "submitted")
	TopicCatalogChanged   = pkgkafka.Topic("catalog", "changed")
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// CartHydratedData is the payload of a cart.hydrated event.
type CartHydratedData struct {
	SessionID      string         `json:"session_id"`
	CartID         string         `json:"cart_id"`
	Lines          []CartLineData `json:"lines"`
	ItemCount      int            `json:"item_count"`
	LineCount      int            `json:"line_count"`
	SubtotalAmount int64          `json:"subtotal_amount"`
	CurrencyCode   string         `json:"currency_code"`
}

// CartLineData is one line within a cart.hydrated payload.
type CartLineData struct {
	LineID        string `json:"line_id"`
	MerchandiseID string `json:"merchandise_id"`
	ProductHandle string `json:"product_handle"`
	Quantity      int    `json:"quantity"`
	PricingMode   string `json:"pricing_mode"`
	TotalAmount   int64  `json:"total_amount"`
}

// ContactSubmittedData is the payload of a contact.submitted event.
type ContactSubmittedData struct {
	SubmissionID string                `json:"submission_id"`
	Kind         domain.FormKind       `json:"kind"`
	SessionID    string                `json:"session_id,omitempty"`
	Form         domain.FormSubmission `json:"form"`
}

// Producer publishes storefront domain events.
type Producer struct {
	publisher pkgkafka.Publisher
	logger    *slog.Logger
}

// NewProducer creates an event producer. Pass pkgkafka.NopPublisher{} when Kafka is disabled.
func NewProducer(publisher pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishCartHydrated publishes the authoritative snapshot a session was hydrated with.
func (p *Producer) PublishCartHydrated(ctx context.Context, sessionID string, cart *domain.Cart) error {
	data := CartHydratedData{
		SessionID:      sessionID,
		CartID:         cart.ID,
		Lines:          make([]CartLineData, 0, len(cart.Lines)),
		LineCount:      len(cart.Lines),
		SubtotalAmount: domain.MinorUnits(cart.Subtotal),
		CurrencyCode:   cart.CurrencyCode,
	}
	for _, l := range cart.Lines {
		data.ItemCount += l.Quantity
		data.Lines = append(data.Lines, CartLineData{
			LineID:        l.ID,
			MerchandiseID: l.MerchandiseID,
			ProductHandle: l.ProductHandle,
			Quantity:      l.Quantity,
			PricingMode:   string(l.Price.Mode),
			TotalAmount:   domain.MinorUnits(l.Price.Total),
		})
	}

	event, err := pkgkafka.NewEvent(TopicCartHydrated, cart.ID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.hydrated event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx))

	if err := p.publisher.Publish(ctx, TopicCartHydrated, event); err != nil {
		return fmt.Errorf("publish cart.hydrated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.hydrated event",
		slog.String("cart_id", cart.ID),
		slog.Int("line_count", data.LineCount),
	)
	return nil
}

// PublishContactSubmitted hands a validated form to downstream notification.
func (p *Producer) PublishContactSubmitted(ctx context.Context, form *domain.SubmittedForm) error {
	data := ContactSubmittedData{
		SubmissionID: form.ID,
		Kind:         form.Kind,
		SessionID:    form.SessionID,
		Form:         form.Form,
	}

	event, err := pkgkafka.NewEvent(TopicContactSubmitted, form.ID, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create contact.submitted event: %w", err)
	}
	event.WithCorrelationID(logger.CorrelationIDFromContext(ctx)).
		WithMetadata("kind", string(form.Kind))

	if err := p.publisher.Publish(ctx, TopicContactSubmitted, event); err != nil {
		return fmt.Errorf("publish contact.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published contact.submitted event",
		slog.String("submission_id", form.ID),
		slog.String("kind", string(form.Kind)),
	)
	return nil
}
