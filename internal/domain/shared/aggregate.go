package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity carries identity and audit timestamps
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch bumps UpdatedAt to now
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// BaseAggregateRoot adds the optimistic-lock version and the events raised
// since the aggregate was loaded. Repositories drain the events into the
// outbox inside the transaction that persists the aggregate.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	domainEvents []DomainEvent
}

// GetVersion returns the version the aggregate was loaded at, plus one per mutation
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion records one mutation
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// AddDomainEvent queues an event for the outbox
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns the queued events in the order they were raised
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents drops the queued events once they are recorded
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// BranchAggregateRoot is an aggregate owned by one branch. Registers, shifts,
// advances and operators are all branch scoped and never move between branches.
type BranchAggregateRoot struct {
	BaseAggregateRoot
	BranchID uuid.UUID
}

// NewBranchAggregateRoot creates a fresh aggregate at version 1
func NewBranchAggregateRoot(branchID uuid.UUID) BranchAggregateRoot {
	now := time.Now()
	return BranchAggregateRoot{
		BaseAggregateRoot: BaseAggregateRoot{
			BaseEntity: BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			Version:    1,
		},
		BranchID: branchID,
	}
}

// GetBranchID returns the owning branch
func (b *BranchAggregateRoot) GetBranchID() uuid.UUID {
	return b.BranchID
}

// OwnedBy reports whether the aggregate belongs to branchID
func (b *BranchAggregateRoot) OwnedBy(branchID uuid.UUID) bool {
	return b.BranchID == branchID
}
