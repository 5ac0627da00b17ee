package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	consumerProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_kafka_consumer_messages_processed_total",
		Help: "Messages handled successfully.",
	}, []string{"topic", "group"})

	consumerFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_kafka_consumer_messages_failed_total",
		Help: "Messages skipped after exhausting handler retries.",
	}, []string{"topic", "group"})

	consumerDuplicates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_kafka_consumer_messages_duplicate_total",
		Help: "Messages skipped by the idempotency guard.",
	}, []string{"event_type"})

	consumerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_kafka_consumer_processing_duration_seconds",
		Help:    "Handler duration per message.",
		Buckets: prometheus.DefBuckets,
	}, []string{"topic", "group"})

	producerPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_kafka_producer_messages_published_total",
		Help: "Messages published.",
	}, []string{"topic"})

	producerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_kafka_producer_publish_errors_total",
		Help: "Publish failures.",
	}, []string{"topic"})
)
