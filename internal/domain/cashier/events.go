package cashier

import (
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate types
const (
	AggregateTypeCashRegister = "CashRegister"
	AggregateTypeShift        = "CashRegisterShift"
	AggregateTypeMovement     = "CashRegisterMovement"
)

// Ledger event types
const (
	EventTypeRegisterCreated       = "RegisterCreated"
	EventTypeRegisterStatusChanged = "RegisterStatusChanged"
	EventTypeShiftOpened           = "ShiftOpened"
	EventTypeShiftClosed           = "ShiftClosed"
	EventTypeMovementRecorded      = "MovementRecorded"
	EventTypeMovementDeleted       = "MovementDeleted"
)

// RegisterCreatedEvent is published when a register is added to a branch
type RegisterCreatedEvent struct {
	shared.BaseDomainEvent
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// NewRegisterCreatedEvent creates a new RegisterCreatedEvent
func NewRegisterCreatedEvent(r *CashRegister) *RegisterCreatedEvent {
	return &RegisterCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegisterCreated, AggregateTypeCashRegister, r.ID, r.BranchID),
		Name:            r.Name,
		DisplayOrder:    r.DisplayOrder,
	}
}

// RegisterStatusChangedEvent is published on activation or deactivation
type RegisterStatusChangedEvent struct {
	shared.BaseDomainEvent
	IsActive bool `json:"is_active"`
}

// NewRegisterStatusChangedEvent creates a new RegisterStatusChangedEvent
func NewRegisterStatusChangedEvent(r *CashRegister) *RegisterStatusChangedEvent {
	return &RegisterStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRegisterStatusChanged, AggregateTypeCashRegister, r.ID, r.BranchID),
		IsActive:        r.IsActive,
	}
}

// ShiftOpenedEvent is published when a shift is opened
type ShiftOpenedEvent struct {
	shared.BaseDomainEvent
	RegisterID    uuid.UUID       `json:"register_id"`
	OpenedBy      uuid.UUID       `json:"opened_by"`
	OpeningAmount decimal.Decimal `json:"opening_amount"`
}

// NewShiftOpenedEvent creates a new ShiftOpenedEvent
func NewShiftOpenedEvent(s *CashRegisterShift) *ShiftOpenedEvent {
	return &ShiftOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftOpened, AggregateTypeShift, s.ID, s.BranchID),
		RegisterID:      s.RegisterID,
		OpenedBy:        s.OpenedBy,
		OpeningAmount:   s.OpeningAmount,
	}
}

// ShiftClosedEvent is published when a shift is closed and reconciled
type ShiftClosedEvent struct {
	shared.BaseDomainEvent
	RegisterID  uuid.UUID       `json:"register_id"`
	ClosedBy    uuid.UUID       `json:"closed_by"`
	Expected    decimal.Decimal `json:"expected"`
	Counted     decimal.Decimal `json:"counted"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

// NewShiftClosedEvent creates a new ShiftClosedEvent; the shift must be closed
func NewShiftClosedEvent(s *CashRegisterShift) *ShiftClosedEvent {
	return &ShiftClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeShiftClosed, AggregateTypeShift, s.ID, s.BranchID),
		RegisterID:      s.RegisterID,
		ClosedBy:        *s.ClosedBy,
		Expected:        *s.ExpectedAmount,
		Counted:         *s.CountedAmount,
		Discrepancy:     *s.Discrepancy,
	}
}

// MovementRecordedEvent is published for every movement written to a shift
type MovementRecordedEvent struct {
	shared.BaseDomainEvent
	ShiftID         uuid.UUID        `json:"shift_id"`
	Type            MovementType     `json:"type"`
	Category        MovementCategory `json:"category"`
	Amount          decimal.Decimal  `json:"amount"`
	PaymentMethod   PaymentMethod    `json:"payment_method"`
	SalaryAdvanceID *uuid.UUID       `json:"salary_advance_id,omitempty"`
}

// NewMovementRecordedEvent creates a new MovementRecordedEvent
func NewMovementRecordedEvent(m *CashRegisterMovement) *MovementRecordedEvent {
	return &MovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementRecorded, AggregateTypeMovement, m.ID, m.BranchID),
		ShiftID:         m.ShiftID,
		Type:            m.Type,
		Category:        m.Category,
		Amount:          m.Amount,
		PaymentMethod:   m.PaymentMethod,
		SalaryAdvanceID: m.SalaryAdvanceID,
	}
}

// MovementDeletedEvent is published when an advance cancellation removes its movement
type MovementDeletedEvent struct {
	shared.BaseDomainEvent
	ShiftID         uuid.UUID       `json:"shift_id"`
	Amount          decimal.Decimal `json:"amount"`
	SalaryAdvanceID uuid.UUID       `json:"salary_advance_id"`
}

// NewMovementDeletedEvent creates a new MovementDeletedEvent
func NewMovementDeletedEvent(m *CashRegisterMovement, advanceID uuid.UUID) *MovementDeletedEvent {
	return &MovementDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMovementDeleted, AggregateTypeMovement, m.ID, m.BranchID),
		ShiftID:         m.ShiftID,
		Amount:          m.Amount,
		SalaryAdvanceID: advanceID,
	}
}
