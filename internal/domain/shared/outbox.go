package shared

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus is the delivery state of an outbox entry
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
	maxBackoff         = 5 * time.Minute
)

// claimable lists the states an entry may be picked up from
var claimable = map[OutboxStatus]bool{
	OutboxStatusPending: true,
	OutboxStatusFailed:  true,
}

// OutboxEntry is a serialized ledger event written in the transaction that
// produced it. SENT and DEAD are terminal until an operator requeues a dead
// entry. The persistence model converts to this type directly, so both keep
// the same field list.
type OutboxEntry struct {
	ID            uuid.UUID
	BranchID      uuid.UUID
	EventID       uuid.UUID
	EventType     string
	AggregateID   uuid.UUID
	AggregateType string
	Payload       []byte
	Status        OutboxStatus
	RetryCount    int
	MaxRetries    int
	LastError     string
	NextRetryAt   *time.Time
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOutboxEntry wraps a serialized event as a pending entry
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		BranchID:      event.BranchID(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// RetryDelay is the wait before attempt n+1 after n failures: 1s, 2s, 4s and so on, capped
func RetryDelay(failures int) time.Duration {
	if failures < 1 {
		return 0
	}
	d := DefaultBaseBackoff << uint(failures-1)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

func (e *OutboxEntry) transition(to OutboxStatus) {
	e.Status = to
	e.UpdatedAt = time.Now()
}

// CanRetry reports whether a failed entry still has attempts left
func (e *OutboxEntry) CanRetry() bool {
	return e.Status == OutboxStatusFailed && e.RetryCount < e.MaxRetries
}

// IsDead reports whether the entry exhausted its retries
func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// MarkProcessing claims a pending or failed entry
func (e *OutboxEntry) MarkProcessing() error {
	if !claimable[e.Status] {
		return fmt.Errorf("outbox entry %s is %s and cannot be claimed", e.ID, e.Status)
	}
	e.transition(OutboxStatusProcessing)
	return nil
}

// MarkSent records a successful delivery
func (e *OutboxEntry) MarkSent() {
	e.transition(OutboxStatusSent)
	at := e.UpdatedAt
	e.ProcessedAt = &at
}

// MarkFailed records a failed attempt and schedules the next one, or moves
// the entry to DEAD once MaxRetries attempts have failed
func (e *OutboxEntry) MarkFailed(errMsg string) {
	e.RetryCount++
	e.LastError = errMsg
	if e.RetryCount >= e.MaxRetries {
		e.transition(OutboxStatusDead)
		e.NextRetryAt = nil
		return
	}
	e.transition(OutboxStatusFailed)
	next := e.UpdatedAt.Add(RetryDelay(e.RetryCount))
	e.NextRetryAt = &next
}

// ResetForRetry requeues a dead entry with a fresh retry budget
func (e *OutboxEntry) ResetForRetry() error {
	if !e.IsDead() {
		return fmt.Errorf("outbox entry %s is %s; only dead entries can be requeued", e.ID, e.Status)
	}
	e.RetryCount = 0
	e.LastError = ""
	e.NextRetryAt = nil
	e.transition(OutboxStatusPending)
	return nil
}

// OutboxRepository is the storage used by the recorder and the processor
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindRetryable returns failed entries whose NextRetryAt is before the given time
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	// MarkProcessing claims the given entries and returns those it won
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeleteOlderThan purges sent entries processed before the given time
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}

// EventRecorder appends events to the outbox of the surrounding transaction.
// A rollback discards them with the rest of the write.
type EventRecorder interface {
	Record(ctx context.Context, events ...DomainEvent) error
}
