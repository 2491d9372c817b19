package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
)

type capturingRedis struct {
	channel string
	payload []byte
	err     error
}

func (c *capturingRedis) Publish(_ context.Context, channel string, payload any) error {
	c.channel = channel
	if raw, ok := payload.([]byte); ok {
		c.payload = raw
	}
	return c.err
}

func TestPublishBuildsChannelAndPayload(t *testing.T) {
	redis := &capturingRedis{}
	pub, err := NewPublisher(redis, config.EventsConfig{ChannelPrefix: "fc:events"}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)

	pub.Publish(context.Background(), TopicOrder, "created", "order-1")

	require.Equal(t, "fc:events:order", redis.channel)

	var event Event
	require.NoError(t, json.Unmarshal(redis.payload, &event))
	require.Equal(t, TopicOrder, event.Topic)
	require.Equal(t, "created", event.Action)
	require.Equal(t, "order-1", event.ResourceID)
	require.False(t, event.OccurredAt.IsZero())
}

func TestPublishSwallowsRedisErrors(t *testing.T) {
	redis := &capturingRedis{err: errors.New("connection refused")}
	pub, err := NewPublisher(redis, config.EventsConfig{ChannelPrefix: "fc:events"}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)

	// Must not panic or propagate.
	pub.Publish(context.Background(), TopicProduct, "updated", "p-1")
}
