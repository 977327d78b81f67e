package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultForwardChannel is the Redis pub/sub channel ledger events go to
const DefaultForwardChannel = "ledger.events"

// RedisPublisher is the part of the Redis client the forwarder uses
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// ForwardedEvent is the message published for each ledger event
type ForwardedEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	BranchID      string          `json:"branch_id"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// RedisForwarder publishes every ledger event to a Redis channel for
// consumers outside the service. It never reads anything back.
type RedisForwarder struct {
	client     RedisPublisher
	channel    string
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewRedisForwarder creates a forwarder. An empty channel uses DefaultForwardChannel.
func NewRedisForwarder(client RedisPublisher, channel string, serializer *EventSerializer, logger *zap.Logger) *RedisForwarder {
	if channel == "" {
		channel = DefaultForwardChannel
	}
	return &RedisForwarder{
		client:     client,
		channel:    channel,
		serializer: serializer,
		logger:     logger,
	}
}

// EventTypes returns nil so the forwarder receives every event
func (f *RedisForwarder) EventTypes() []string {
	return nil
}

// Handle publishes evt wrapped in a ForwardedEvent
func (f *RedisForwarder) Handle(ctx context.Context, evt shared.DomainEvent) error {
	payload, err := f.serializer.Serialize(evt)
	if err != nil {
		return err
	}

	msg, err := json.Marshal(ForwardedEvent{
		EventID:       evt.EventID().String(),
		EventType:     evt.EventType(),
		AggregateID:   evt.AggregateID().String(),
		AggregateType: evt.AggregateType(),
		BranchID:      evt.BranchID().String(),
		OccurredAt:    evt.OccurredAt(),
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal forwarded event: %w", err)
	}

	if err := f.client.Publish(ctx, f.channel, msg).Err(); err != nil {
		return fmt.Errorf("failed to publish %s to %s: %w", evt.EventType(), f.channel, err)
	}

	logger.Enrich(ctx, f.logger).Debug("Forwarded ledger event",
		zap.String("event_type", evt.EventType()),
		zap.String("event_id", evt.EventID().String()),
		zap.String("channel", f.channel),
	)
	return nil
}

var _ shared.EventHandler = (*RedisForwarder)(nil)
