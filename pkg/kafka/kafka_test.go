package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Event ---

func TestNewEvent(t *testing.T) {
	type hydrated struct {
		CartID    string `json:"cart_id"`
		ItemCount int    `json:"item_count"`
	}

	event, err := NewEvent("cart.hydrated", "sess-1", "storefront", hydrated{CartID: "gid://shopify/Cart/1", ItemCount: 2})
	require.NoError(t, err)

	assert.NotEmpty(t, event.EventID)
	assert.Equal(t, "cart.hydrated", event.EventType)
	assert.Equal(t, "sess-1", event.Key)
	assert.Equal(t, 1, event.Version)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, 2*time.Second)

	var got hydrated
	require.NoError(t, event.UnmarshalData(&got))
	assert.Equal(t, 2, got.ItemCount)
}

func TestNewEvent_UnmarshalablePayload(t *testing.T) {
	_, err := NewEvent("x", "k", "storefront", make(chan int))
	assert.Error(t, err)
}

func TestEvent_MarshalRoundTrip(t *testing.T) {
	event, err := NewEvent("contact.submitted", "thandi@example.com", "storefront", map[string]string{"kind": "catering"})
	require.NoError(t, err)
	event.WithCorrelationID("corr-1").WithMetadata("kind", "catering")

	raw, err := event.Marshal()
	require.NoError(t, err)

	restored, err := UnmarshalEvent(raw)
	require.NoError(t, err)
	assert.Equal(t, event.EventID, restored.EventID)
	assert.Equal(t, "corr-1", restored.CorrelationID)
	assert.Equal(t, "catering", restored.Metadata["kind"])
}

func TestUnmarshalEvent_Invalid(t *testing.T) {
	_, err := UnmarshalEvent([]byte("{"))
	assert.Error(t, err)
}

func TestTopic(t *testing.T) {
	assert.Equal(t, "storefront.cart.hydrated", Topic("cart", "hydrated"))
}

// --- Producer ---

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, logger: discardLogger()}

	event, err := NewEvent("cart.hydrated", "sess-9", "storefront", map[string]int{"line_count": 1})
	require.NoError(t, err)
	event.WithCorrelationID("req-7")

	require.NoError(t, p.Publish(context.Background(), "storefront.cart.hydrated", event))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "storefront.cart.hydrated", msg.Topic)
	assert.Equal(t, "sess-9", string(msg.Key))
	assert.Equal(t, "cart.hydrated", headerCarrier{headers: &msg.Headers}.Get("event_type"))
	assert.Equal(t, "req-7", headerCarrier{headers: &msg.Headers}.Get("correlation_id"))

	var decoded Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.EventID, decoded.EventID)
}

func TestProducer_PublishError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}, logger: discardLogger()}
	event, _ := NewEvent("cart.hydrated", "s", "storefront", nil)

	err := p.Publish(context.Background(), "t", event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestPingBrokers_NoBrokers(t *testing.T) {
	assert.Error(t, PingBrokers(context.Background(), nil))
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), "t", &Event{}))
}

// --- Trace propagation ---

func TestHeaderCarrier(t *testing.T) {
	headers := []kafka.Header{{Key: "event_type", Value: []byte("a")}}
	c := headerCarrier{headers: &headers}

	c.Set("event_type", "b")
	c.Set("traceparent", "00-abc")

	assert.Equal(t, "b", c.Get("event_type"))
	assert.Equal(t, "00-abc", c.Get("traceparent"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"event_type", "traceparent"}, c.Keys())
}

func TestTracePropagationRoundTrip(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	var msg kafka.Message
	injectTrace(ctx, &msg)
	out := trace.SpanContextFromContext(extractTrace(context.Background(), &msg))

	assert.Equal(t, traceID, out.TraceID())
	assert.True(t, out.IsRemote())
}

// --- Consumer ---

type fakeReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
	cancel    context.CancelFunc
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) == 0 {
		r.mu.Unlock()
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	r.mu.Unlock()
	return msg, nil
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func eventMessage(t *testing.T, offset int64, id string) kafka.Message {
	t.Helper()
	event, err := NewEvent("catalog.changed", "all", "shopify-webhooks", nil)
	require.NoError(t, err)
	event.EventID = id
	raw, err := event.Marshal()
	require.NoError(t, err)
	return kafka.Message{Topic: "storefront.catalog.changed", Offset: offset, Value: raw}
}

func TestConsumer_ProcessesAndCommitsEverything(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafka.Message{
		eventMessage(t, 1, "e1"),
		{Topic: "storefront.catalog.changed", Offset: 2, Value: []byte("not json")},
		eventMessage(t, 3, "poison"),
	}}

	var handled []string
	handler := func(_ context.Context, e *Event) error {
		handled = append(handled, e.EventID)
		if e.EventID == "poison" {
			return errors.New("cannot handle")
		}
		return nil
	}

	c := newConsumer(reader, ConsumerConfig{Topic: "storefront.catalog.changed", GroupID: "g"}, handler, discardLogger())
	c.backoff = time.Millisecond

	require.NoError(t, c.Start(ctx))
	assert.Equal(t, []string{"e1", "poison", "poison", "poison"}, handled)
	assert.Equal(t, []int64{1, 2, 3}, reader.committed)
}

// --- Idempotency ---

type mapStore struct {
	seen       map[string]bool
	lookupErr  error
	addedCount int
}

func (s *mapStore) Contains(_ context.Context, id string) (bool, error) {
	if s.lookupErr != nil {
		return false, s.lookupErr
	}
	return s.seen[id], nil
}

func (s *mapStore) Add(_ context.Context, id string) error {
	s.seen[id] = true
	s.addedCount++
	return nil
}

func TestIdempotentHandler(t *testing.T) {
	store := &mapStore{seen: map[string]bool{}}
	calls := 0
	h := IdempotentHandler(store, func(context.Context, *Event) error {
		calls++
		return nil
	}, discardLogger())

	event := &Event{EventID: "evt-1", EventType: "catalog.changed"}
	require.NoError(t, h(context.Background(), event))
	require.NoError(t, h(context.Background(), event))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.addedCount)
}

func TestIdempotentHandler_FailureIsNotRecorded(t *testing.T) {
	store := &mapStore{seen: map[string]bool{}}
	h := IdempotentHandler(store, func(context.Context, *Event) error {
		return errors.New("refresh failed")
	}, discardLogger())

	assert.Error(t, h(context.Background(), &Event{EventID: "evt-2"}))
	assert.False(t, store.seen["evt-2"])
}

func TestIdempotentHandler_PassThrough(t *testing.T) {
	calls := 0
	inner := func(context.Context, *Event) error { calls++; return nil }

	noID := IdempotentHandler(&mapStore{seen: map[string]bool{}}, inner, discardLogger())
	require.NoError(t, noID(context.Background(), &Event{}))
	require.NoError(t, noID(context.Background(), &Event{}))

	broken := IdempotentHandler(&mapStore{lookupErr: errors.New("redis down")}, inner, discardLogger())
	require.NoError(t, broken(context.Background(), &Event{EventID: "evt-3"}))

	assert.Equal(t, 3, calls)
}
