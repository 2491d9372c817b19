package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thanhngvn/foodcourt-backend/pkg/config"
	"github.com/thanhngvn/foodcourt-backend/pkg/logger"
)

// Topic names one resource channel. Storefront clients subscribe per topic
// and refetch on any event rather than patching state from payloads.
type Topic string

const (
	TopicProduct  Topic = "product"
	TopicCategory Topic = "category"
	TopicCoupon   Topic = "coupon"
	TopicTable    Topic = "table"
	TopicOrder    Topic = "order"
	TopicReview   Topic = "review"
)

// Event is the wire payload published to a topic channel.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Topic      Topic     `json:"topic"`
	Action     string    `json:"action"`
	ResourceID string    `json:"resource_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

type redisPublisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Publisher fans resource-change notifications out over Redis pub/sub.
type Publisher struct {
	redis         redisPublisher
	channelPrefix string
	logger        *logger.Logger
}

// NewPublisher wires the publisher to Redis.
func NewPublisher(redis redisPublisher, cfg config.EventsConfig, logg *logger.Logger) (*Publisher, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Publisher{redis: redis, channelPrefix: cfg.ChannelPrefix, logger: logg}, nil
}

// Publish emits one event. Publish failures are logged, not propagated: live
// refresh is best-effort and must never fail the triggering mutation.
func (p *Publisher) Publish(ctx context.Context, topic Topic, action, resourceID string) {
	event := Event{
		ID:         uuid.New(),
		Topic:      topic,
		Action:     action,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error(ctx, "encode event", err)
		return
	}
	channel := fmt.Sprintf("%s:%s", p.channelPrefix, topic)
	if err := p.redis.Publish(ctx, channel, payload); err != nil {
		p.logger.Error(ctx, fmt.Sprintf("publish event to %s", channel), err)
	}
}
