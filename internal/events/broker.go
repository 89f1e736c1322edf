package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Broker fans events out to their channels. Publish must never block a
// lifecycle transition on a slow subscriber.
type Broker interface {
	Publish(ctx context.Context, event Event) error
}

// Envelope is the wire format shared by the Redis and in-memory brokers.
type Envelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"ts"`
}

// Encode wraps an event in its envelope.
func Encode(event Event, now time.Time) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event %s: %w", event.Name(), err)
	}
	return json.Marshal(Envelope{
		Event:     event.Name(),
		Data:      data,
		Timestamp: now,
	})
}
