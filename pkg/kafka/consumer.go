package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// maxHandlerAttempts bounds handler retries before a message is committed and skipped.
const maxHandlerAttempts = 3

// Handler processes one event.
type Handler func(ctx context.Context, event *Event) error

// messageReader is the subset of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

// Consumer reads one topic within a consumer group and feeds a Handler.
type Consumer struct {
	reader    messageReader
	topic     string
	group     string
	handler   Handler
	logger    *slog.Logger
	backoff   time.Duration
	closeOnce sync.Once
}

// NewConsumer creates a consumer for cfg.Topic.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return newConsumer(r, cfg, handler, logger)
}

func newConsumer(r messageReader, cfg ConsumerConfig, handler Handler, logger *slog.Logger) *Consumer {
	return &Consumer{
		reader:  r,
		topic:   cfg.Topic,
		group:   cfg.GroupID,
		handler: handler,
		logger:  logger,
		backoff: 100 * time.Millisecond,
	}
}

// Start consumes until ctx is cancelled. Undecodable messages and messages whose
// handler keeps failing are committed so they cannot block the partition.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started", slog.String("topic", c.topic), slog.String("group", c.group))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", c.topic))
				return c.Close()
			}
			c.logger.Error("fetch message failed", slog.String("error", err.Error()))
			continue
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("commit message failed",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		c.logger.Error("undecodable message skipped",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		consumerFailed.WithLabelValues(c.topic, c.group).Inc()
		return
	}

	ctx = extractTrace(ctx, &msg)
	start := time.Now()
	defer func() {
		consumerDuration.WithLabelValues(c.topic, c.group).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for attempt := 1; attempt <= maxHandlerAttempts; attempt++ {
		if lastErr = c.handler(ctx, event); lastErr == nil {
			consumerProcessed.WithLabelValues(c.topic, c.group).Inc()
			return
		}
		c.logger.WarnContext(ctx, "handler failed",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()),
		)
		if attempt == maxHandlerAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}

	consumerFailed.WithLabelValues(c.topic, c.group).Inc()
	c.logger.ErrorContext(ctx, "handler failed after all attempts, skipping message",
		slog.String("event_type", event.EventType),
		slog.String("event_id", event.EventID),
		slog.Int("partition", msg.Partition),
		slog.Int64("offset", msg.Offset),
		slog.String("error", lastErr.Error()),
	)
}

// Close closes the reader. Safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
