package event

import (
	"context"
	"fmt"

	"github.com/erp/cashledger/internal/domain/shared"
)

// OutboxRecorder implements shared.EventRecorder by writing events to an
// outbox repository. Bind the repository to the transaction of the state
// change so events and state commit or roll back together.
type OutboxRecorder struct {
	serializer *EventSerializer
	repo       shared.OutboxRepository
	maxRetries int
}

// NewOutboxRecorder creates a recorder. maxRetries <= 0 keeps the entry default.
func NewOutboxRecorder(serializer *EventSerializer, repo shared.OutboxRepository, maxRetries int) *OutboxRecorder {
	return &OutboxRecorder{serializer: serializer, repo: repo, maxRetries: maxRetries}
}

// Record serializes events and stores them as pending outbox entries
func (r *OutboxRecorder) Record(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, evt := range events {
		payload, err := r.serializer.Serialize(evt)
		if err != nil {
			return err
		}
		entry := shared.NewOutboxEntry(evt, payload)
		if r.maxRetries > 0 {
			entry.MaxRetries = r.maxRetries
		}
		entries = append(entries, entry)
	}

	if err := r.repo.Save(ctx, entries...); err != nil {
		return fmt.Errorf("failed to save outbox entries: %w", err)
	}
	return nil
}

var _ shared.EventRecorder = (*OutboxRecorder)(nil)
