package kafka

import (
	"context"
	"log/slog"
)

// IdempotencyStore records processed event IDs. Implementations must be safe
// for concurrent use.
type IdempotencyStore interface {
	Contains(ctx context.Context, eventID string) (bool, error)
	Add(ctx context.Context, eventID string) error
}

// IdempotentHandler skips events whose ID is already recorded in store and
// records the ID after inner succeeds. Events without an ID, and lookups that
// fail, are passed through: handling twice is preferred over dropping.
func IdempotentHandler(store IdempotencyStore, inner Handler, logger *slog.Logger) Handler {
	return func(ctx context.Context, event *Event) error {
		if event.EventID == "" {
			return inner(ctx, event)
		}

		seen, err := store.Contains(ctx, event.EventID)
		if err != nil {
			logger.WarnContext(ctx, "idempotency lookup failed, processing anyway",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
			return inner(ctx, event)
		}
		if seen {
			consumerDuplicates.WithLabelValues(event.EventType).Inc()
			logger.DebugContext(ctx, "duplicate event skipped",
				slog.String("event_id", event.EventID),
				slog.String("event_type", event.EventType),
			)
			return nil
		}

		if err := inner(ctx, event); err != nil {
			return err
		}

		if err := store.Add(ctx, event.EventID); err != nil {
			logger.WarnContext(ctx, "recording processed event failed",
				slog.String("event_id", event.EventID),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}
}
