package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	platformredis "sharebite/internal/platform/redis"
	"sharebite/internal/platform/metrics"
	dErrors "sharebite/pkg/domain-errors"
	"sharebite/pkg/requestcontext"
)

// channelPrefix namespaces fan-out channels in a shared Redis.
const channelPrefix = "sharebite:events:"

// RedisBroker publishes events over Redis pub/sub so every instance behind
// the load balancer reaches every subscriber. Redis pub/sub is fire-and-
// forget, which is exactly the at-most-once contract the fan-out promises.
type RedisBroker struct {
	client  *platformredis.Client
	metrics *metrics.Metrics
}

func NewRedisBroker(client *platformredis.Client, m *metrics.Metrics) *RedisBroker {
	return &RedisBroker{client: client, metrics: m}
}

func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := Encode(event, requestcontext.Now(ctx))
	if err != nil {
		return err
	}

	pipe := b.client.Pipeline()
	for _, channel := range event.Channels() {
		pipe.Publish(ctx, channelPrefix+channel, payload)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "publish event")
	}
	b.metrics.IncEventPublished(event.Name())
	return nil
}

// Subscribe joins one or more channels. The returned PubSub must be closed by
// the caller; messages arrive as Envelope JSON.
func (b *RedisBroker) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	prefixed := make([]string, len(channels))
	for i, c := range channels {
		prefixed[i] = channelPrefix + c
	}
	return b.client.Client.Subscribe(ctx, prefixed...)
}

// Health pings the underlying connection; used by /healthz.
func (b *RedisBroker) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return b.client.Health(ctx)
}
