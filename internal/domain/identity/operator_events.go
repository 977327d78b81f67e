package identity

import (
	"github.com/erp/cashledger/internal/domain/shared"
)

// AggregateTypeOperator is the aggregate type of Operator events
const AggregateTypeOperator = "Operator"

// Operator domain event types
const (
	EventTypeOperatorRegistered    = "OperatorRegistered"
	EventTypeOperatorPinAssigned   = "OperatorPinAssigned"
	EventTypeOperatorStatusChanged = "OperatorStatusChanged"
)

// OperatorRegisteredEvent is published when an operator joins a branch
type OperatorRegisteredEvent struct {
	shared.BaseDomainEvent
	Name string       `json:"name"`
	Role OperatorRole `json:"role"`
}

// NewOperatorRegisteredEvent creates a new OperatorRegisteredEvent
func NewOperatorRegisteredEvent(o *Operator) *OperatorRegisteredEvent {
	return &OperatorRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperatorRegistered, AggregateTypeOperator, o.ID, o.BranchID),
		Name:            o.Name,
		Role:            o.Role,
	}
}

// OperatorPinAssignedEvent is published when an operator's PIN changes.
// The PIN itself is never part of the payload.
type OperatorPinAssignedEvent struct {
	shared.BaseDomainEvent
}

// NewOperatorPinAssignedEvent creates a new OperatorPinAssignedEvent
func NewOperatorPinAssignedEvent(o *Operator) *OperatorPinAssignedEvent {
	return &OperatorPinAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperatorPinAssigned, AggregateTypeOperator, o.ID, o.BranchID),
	}
}

// OperatorStatusChangedEvent is published on activation or deactivation
type OperatorStatusChangedEvent struct {
	shared.BaseDomainEvent
	Status OperatorStatus `json:"status"`
}

// NewOperatorStatusChangedEvent creates a new OperatorStatusChangedEvent
func NewOperatorStatusChangedEvent(o *Operator) *OperatorStatusChangedEvent {
	return &OperatorStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOperatorStatusChanged, AggregateTypeOperator, o.ID, o.BranchID),
		Status:          o.Status,
	}
}
