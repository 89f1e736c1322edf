//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"sharebite/internal/audit"
	"sharebite/internal/platform/config"
	"sharebite/internal/platform/kafka"
	"sharebite/internal/platform/logger"
	id "sharebite/pkg/domain"
	"sharebite/pkg/testutil/containers"
)

func TestKafkaSinkMirrorsAuditEvents(t *testing.T) {
	rp := containers.GetRedpanda(t)
	topic := "sharebite.audit.test"

	producer, err := kafka.NewProducer(config.KafkaConfig{
		Brokers: []string{rp.Broker},
		Topic:   topic,
	})
	require.NoError(t, err)
	require.NotNil(t, producer)
	defer producer.Close()

	store := audit.NewInMemoryStore()
	pub := audit.NewPublisher(store, logger.New(), audit.WithKafkaSink(producer))
	defer pub.Close()

	actor := id.NewUserID()
	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Actor:      actor,
		Action:     audit.ActionClaimCreated,
		DonationID: id.NewDonationID().String(),
	}))

	// The store is the source of truth and must have the event regardless of
	// the sink.
	stored, err := store.ListByActor(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.NotEmpty(t, records)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, audit.ActionClaimCreated, got.Action)
	assert.Equal(t, actor, got.Actor)
	assert.Equal(t, string(records[0].Key), actor.String())
}
