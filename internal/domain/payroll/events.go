package payroll

import (
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeSalaryAdvance is the aggregate type for salary advances
const AggregateTypeSalaryAdvance = "SalaryAdvance"

// Salary advance event types
const (
	EventTypeAdvanceCreated     = "AdvanceCreated"
	EventTypeAdvanceTransferred = "AdvanceTransferred"
	EventTypeAdvanceCancelled   = "AdvanceCancelled"
	EventTypeAdvanceDeducted    = "AdvanceDeducted"
)

// AdvanceCreatedEvent is published once an advance is paid or awaiting transfer
type AdvanceCreatedEvent struct {
	shared.BaseDomainEvent
	EmployeeID    uuid.UUID            `json:"employee_id"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod AdvancePaymentMethod `json:"payment_method"`
	Status        AdvanceStatus        `json:"status"`
	AuthorizedBy  uuid.UUID            `json:"authorized_by"`
	ShiftID       *uuid.UUID           `json:"shift_id,omitempty"`
}

// NewAdvanceCreatedEvent creates a new AdvanceCreatedEvent
func NewAdvanceCreatedEvent(a *SalaryAdvance) *AdvanceCreatedEvent {
	return &AdvanceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceCreated, AggregateTypeSalaryAdvance, a.ID, a.BranchID),
		EmployeeID:      a.EmployeeID,
		Amount:          a.Amount,
		PaymentMethod:   a.PaymentMethod,
		Status:          a.Status,
		AuthorizedBy:    a.AuthorizedBy,
		ShiftID:         a.ShiftID,
	}
}

// AdvanceTransferredEvent is published when a bank transfer is confirmed
type AdvanceTransferredEvent struct {
	shared.BaseDomainEvent
	EmployeeID    uuid.UUID       `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	TransferredBy uuid.UUID       `json:"transferred_by"`
	Reference     string          `json:"reference,omitempty"`
}

// NewAdvanceTransferredEvent creates a new AdvanceTransferredEvent
func NewAdvanceTransferredEvent(a *SalaryAdvance) *AdvanceTransferredEvent {
	e := &AdvanceTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceTransferred, AggregateTypeSalaryAdvance, a.ID, a.BranchID),
		EmployeeID:      a.EmployeeID,
		Amount:          a.Amount,
		Reference:       a.TransferReference,
	}
	if a.TransferredBy != nil {
		e.TransferredBy = *a.TransferredBy
	}
	return e
}

// AdvanceCancelledEvent is published when an advance is cancelled
type AdvanceCancelledEvent struct {
	shared.BaseDomainEvent
	EmployeeID    uuid.UUID            `json:"employee_id"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod AdvancePaymentMethod `json:"payment_method"`
	CancelledBy   uuid.UUID            `json:"cancelled_by"`
	ShiftID       *uuid.UUID           `json:"shift_id,omitempty"`
}

// NewAdvanceCancelledEvent creates a new AdvanceCancelledEvent
func NewAdvanceCancelledEvent(a *SalaryAdvance) *AdvanceCancelledEvent {
	e := &AdvanceCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAdvanceCancelled, AggregateTypeSalaryAdvance, a.ID, a.BranchID),
		EmployeeID:      a.EmployeeID,
		Amount:          a.Amount,
		PaymentMethod:   a.PaymentMethod,
		ShiftID:         a.ShiftID,
	}
	if a.CancelledBy != nil {
		e.CancelledBy = *a.CancelledBy
	}
	return e
}

// AdvanceDeductedEvent is published when payroll recovers the advance
type AdvanceDeductedEvent struct {
	shared.BaseDomainEvent
	EmployeeID       uuid.UUID       `json:"employee_id"`
	Amount           decimal.Decimal `json:"amount"`
	PayrollReference string          `json:"payroll_reference,omitempty"`
}

// NewAdvanceDeductedEvent creates a new AdvanceDeductedEvent
func NewAdvanceDeductedEvent(a *SalaryAdvance) *AdvanceDeductedEvent {
	return &AdvanceDeductedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeAdvanceDeducted, AggregateTypeSalaryAdvance, a.ID, a.BranchID),
		EmployeeID:       a.EmployeeID,
		Amount:           a.Amount,
		PayrollReference: a.PayrollReference,
	}
}
