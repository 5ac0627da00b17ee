package kafka

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TopicPrefix prefixes every storefront topic.
const TopicPrefix = "storefront"

// Topic builds "storefront.<domain>.<action>".
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}

// Event is the envelope of every message the storefront publishes or consumes.
// Key is used as the partition key, so events for one cart stay ordered.
type Event struct {
	EventID       string            `json:"event_id"`
	EventType     string            `json:"event_type"`
	Key           string            `json:"key"`
	Version       int               `json:"version"`
	Timestamp     time.Time         `json:"timestamp"`
	Source        string            `json:"source"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Data          json.RawMessage   `json:"data"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// NewEvent marshals data into a new envelope with a fresh ID.
func NewEvent(eventType, key, source string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	return &Event{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Key:       key,
		Version:   1,
		Timestamp: time.Now().UTC(),
		Source:    source,
		Data:      raw,
		Metadata:  map[string]string{},
	}, nil
}

// WithCorrelationID sets the correlation ID.
func (e *Event) WithCorrelationID(id string) *Event {
	e.CorrelationID = id
	return e
}

// WithMetadata sets one metadata entry.
func (e *Event) WithMetadata(key, value string) *Event {
	if e.Metadata == nil {
		e.Metadata = map[string]string{}
	}
	e.Metadata[key] = value
	return e
}

// Marshal serializes the envelope.
func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent parses an envelope.
func UnmarshalEvent(data []byte) (*Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

// UnmarshalData decodes the payload into target.
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
