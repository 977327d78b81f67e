package shared

import (
	"context"
	"time"
)

// Outbox entries committed with a ledger write are handed to an EventBus by
// the outbox processor. Handlers forward them downstream (Redis pub/sub,
// metrics). Delivery is at-least-once, so forwarders that must not repeat
// side effects sit behind an IdempotencyStore.

// EventHandler consumes delivered ledger events
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the types the handler wants; empty means every type
	EventTypes() []string
}

// EventPublisher hands events to subscribed handlers
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler subscriptions. Explicit eventTypes override
// the handler's own EventTypes.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the delivery side of the outbox
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// IdempotencyStore records delivered event IDs
type IdempotencyStore interface {
	// MarkProcessed claims eventID for ttl; false means another delivery already claimed it
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// Release drops a claim after a failed delivery so the retry goes through
	Release(ctx context.Context, eventID string) error
	Close() error
}

// IdempotencyConfig controls deduplication of redelivered events
type IdempotencyConfig struct {
	// TTL bounds how long a delivered ID is remembered. It should outlast the
	// outbox retry window, otherwise a late retry is forwarded twice.
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig remembers IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{TTL: 24 * time.Hour, Enabled: true}
}
