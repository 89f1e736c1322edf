package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"sharebite/internal/platform/kafka"
	id "sharebite/pkg/domain"
	"sharebite/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. With an async
// buffer the hot path never waits on the store; Close drains what is queued.
type Publisher struct {
	store  Store
	sink   *kafka.Producer
	logger *slog.Logger

	inbox chan Event
	done  chan struct{}
	once  sync.Once
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithAsyncBuffer moves persistence onto a background goroutine with the
// given queue size. Zero keeps the publisher synchronous.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		if size > 0 {
			p.inbox = make(chan Event, size)
		}
	}
}

// WithKafkaSink mirrors every event to the audit topic for downstream
// consumers. Sink failures are logged, never propagated: the store is the
// source of truth.
func WithKafkaSink(producer *kafka.Producer) Option {
	return func(p *Publisher) {
		p.sink = producer
	}
}

func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger, done: make(chan struct{})}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.inbox != nil {
		go p.run()
	}
	return p
}

// Emit records one audit event, stamping timestamp and client metadata from
// the context when absent.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.UserAgent == "" {
		event.UserAgent = requestcontext.UserAgent(ctx)
	}

	if p.inbox != nil {
		select {
		case p.inbox <- event:
			return nil
		default:
			// Queue full; fall through to synchronous append so nothing is lost.
		}
	}
	return p.persist(context.WithoutCancel(ctx), event)
}

// List returns the trail for one actor.
func (p *Publisher) List(ctx context.Context, actor id.UserID) ([]Event, error) {
	return p.store.ListByActor(ctx, actor)
}

// Close drains the async queue. Safe to call more than once.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			<-p.done
		}
	})
}

func (p *Publisher) run() {
	defer close(p.done)
	for event := range p.inbox {
		if err := p.persist(context.Background(), event); err != nil {
			p.logger.Error("audit append failed",
				"action", string(event.Action),
				"error", err.Error(),
			)
		}
	}
}

func (p *Publisher) persist(ctx context.Context, event Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return err
	}
	if p.sink != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			p.logger.Error("audit sink encode failed", "error", err.Error())
			return nil
		}
		if err := p.sink.Publish(ctx, event.Actor.String(), payload); err != nil {
			p.logger.Error("audit sink publish failed", "error", err.Error())
		}
	}
	return nil
}
