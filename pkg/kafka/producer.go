package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher publishes events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
}

// messageWriter is the subset of *kafka.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerConfig holds Kafka producer configuration.
type ProducerConfig struct {
	Brokers      []string
	BatchSize    int
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// DefaultProducerConfig returns producer defaults for low-volume storefront events.
func DefaultProducerConfig(brokers []string) ProducerConfig {
	return ProducerConfig{
		Brokers:      brokers,
		BatchSize:    50,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// Producer publishes events through a kafka-go writer.
type Producer struct {
	writer  messageWriter
	brokers []string
	logger  *slog.Logger
}

// NewProducer creates a producer. No connection is made until the first publish.
func NewProducer(cfg ProducerConfig, logger *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchSize:              cfg.BatchSize,
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w, brokers: cfg.Brokers, logger: logger}
}

// Publish writes event to topic, keyed by event.Key.
func (p *Producer) Publish(ctx context.Context, topic string, event *Event) error {
	data, err := event.Marshal()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(event.Key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "source", Value: []byte(event.Source)},
		},
	}
	if event.CorrelationID != "" {
		msg.Headers = append(msg.Headers, kafka.Header{Key: "correlation_id", Value: []byte(event.CorrelationID)})
	}
	injectTrace(ctx, &msg)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		producerErrors.WithLabelValues(topic).Inc()
		return fmt.Errorf("publish %s to %s: %w", event.EventType, topic, err)
	}
	producerPublished.WithLabelValues(topic).Inc()

	p.logger.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("event_type", event.EventType),
		slog.String("key", event.Key),
	)
	return nil
}

// Ping checks that at least one configured broker answers.
func (p *Producer) Ping(ctx context.Context) error {
	return PingBrokers(ctx, p.brokers)
}

// PingBrokers dials brokers in order and returns nil on the first that answers
// a metadata request.
func PingBrokers(ctx context.Context, brokers []string) error {
	if len(brokers) == 0 {
		return fmt.Errorf("kafka: no brokers configured")
	}

	var lastErr error
	for _, addr := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = conn.Brokers()
		_ = conn.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("kafka ping: all brokers unreachable: %w", lastErr)
}

// Close flushes pending messages and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event. It stands in when Kafka is disabled.
type NopPublisher struct{}

// Publish implements Publisher.
func (NopPublisher) Publish(context.Context, string, *Event) error { return nil }
