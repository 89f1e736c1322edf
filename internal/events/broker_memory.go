package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"sharebite/internal/platform/metrics"
)

// InMemoryBroker is a room-based hub for tests and single-instance
// deployments. Subscribers get buffered channels; a full buffer drops the
// event rather than stalling the publisher, matching the at-most-once
// contract.
type InMemoryBroker struct {
	mu      sync.RWMutex
	rooms   map[string][]chan Envelope
	metrics *metrics.Metrics
}

func NewInMemoryBroker(m *metrics.Metrics) *InMemoryBroker {
	return &InMemoryBroker{
		rooms:   make(map[string][]chan Envelope),
		metrics: m,
	}
}

func (b *InMemoryBroker) Publish(_ context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.Name(), err)
	}
	env := Envelope{Event: event.Name(), Data: data, Timestamp: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, channel := range event.Channels() {
		for _, sub := range b.rooms[channel] {
			select {
			case sub <- env:
			default:
				// Slow subscriber; at-most-once allows dropping.
			}
		}
	}
	b.metrics.IncEventPublished(event.Name())
	return nil
}

// Subscribe joins a room and returns the stream plus a cancel func.
func (b *InMemoryBroker) Subscribe(channel string) (<-chan Envelope, func()) {
	sub := make(chan Envelope, 16)
	b.mu.Lock()
	b.rooms[channel] = append(b.rooms[channel], sub)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.rooms[channel]
		for i, s := range subs {
			if s == sub {
				b.rooms[channel] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return sub, cancel
}
