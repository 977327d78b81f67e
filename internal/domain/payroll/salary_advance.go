package payroll

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdvancePaymentMethod is how a salary advance reaches the employee
type AdvancePaymentMethod string

const (
	AdvancePaymentCash     AdvancePaymentMethod = "CASH"
	AdvancePaymentTransfer AdvancePaymentMethod = "TRANSFER"
)

// IsValid returns true if the method is a known value
func (m AdvancePaymentMethod) IsValid() bool {
	return m == AdvancePaymentCash || m == AdvancePaymentTransfer
}

// AdvanceStatus represents the lifecycle state of a salary advance
type AdvanceStatus string

const (
	AdvanceStatusCreated         AdvanceStatus = "CREATED"
	AdvanceStatusPaid            AdvanceStatus = "PAID"
	AdvanceStatusPendingTransfer AdvanceStatus = "PENDING_TRANSFER"
	AdvanceStatusTransferred     AdvanceStatus = "TRANSFERRED"
	AdvanceStatusDeducted        AdvanceStatus = "DEDUCTED"
	AdvanceStatusCancelled       AdvanceStatus = "CANCELLED"
)

// IsValid returns true if the status is a known value
func (s AdvanceStatus) IsValid() bool {
	switch s {
	case AdvanceStatusCreated, AdvanceStatusPaid, AdvanceStatusPendingTransfer,
		AdvanceStatusTransferred, AdvanceStatusDeducted, AdvanceStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s AdvanceStatus) String() string {
	return string(s)
}

// CanCancel returns true if the advance can still be cancelled.
// A cash advance that was PAID is cancellable: cancelling reverses its movement.
func (s AdvanceStatus) CanCancel() bool {
	switch s {
	case AdvanceStatusCreated, AdvanceStatusPaid, AdvanceStatusPendingTransfer:
		return true
	}
	return false
}

// CanConfirmTransfer returns true if the bank transfer can be confirmed
func (s AdvanceStatus) CanConfirmTransfer() bool {
	return s == AdvanceStatusPendingTransfer
}

// CanDeduct returns true if payroll can settle the advance
func (s AdvanceStatus) CanDeduct() bool {
	return s == AdvanceStatusPaid || s == AdvanceStatusTransferred
}

// IsTerminal returns true for states with no way back into the ledger
func (s AdvanceStatus) IsTerminal() bool {
	switch s {
	case AdvanceStatusTransferred, AdvanceStatusDeducted, AdvanceStatusCancelled:
		return true
	}
	return false
}

// MaxReasonLength caps the free-text reason
const MaxReasonLength = 500

// Payroll errors
var (
	ErrAdvanceNotFound      = shared.NewDomainError("ADVANCE_NOT_FOUND", "Salary advance not found")
	ErrShiftRequired        = shared.NewDomainError("SHIFT_REQUIRED", "A cash advance must be paid from an open shift")
	ErrShiftNotOpen         = shared.NewDomainError("SHIFT_NOT_OPEN", "The shift paying the advance is not open")
	ErrInvalidTransition    = shared.NewDomainError("INVALID_TRANSITION", "Transition not allowed from the advance's current status")
	ErrAlreadyTerminal      = shared.NewDomainError("ALREADY_TERMINAL", "Salary advance is already settled and cannot be cancelled")
	ErrInvalidAdvanceMethod = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Advance payment method must be CASH or TRANSFER")
)

// SalaryAdvance is an early payroll payment to an employee.
//
// A CASH advance is paid out of an open shift and owns exactly one EXPENSE
// movement while it is PAID. A TRANSFER advance never touches the ledger.
type SalaryAdvance struct {
	shared.BranchAggregateRoot
	EmployeeID        uuid.UUID
	Amount            decimal.Decimal
	Reason            string
	PaymentMethod     AdvancePaymentMethod
	Status            AdvanceStatus
	AuthorizedBy      uuid.UUID
	AuthorizedAt      time.Time
	PaidBy            *uuid.UUID
	PaidAt            *time.Time
	ShiftID           *uuid.UUID
	TransferredBy     *uuid.UUID
	TransferredAt     *time.Time
	TransferReference string
	DeductedAt        *time.Time
	PayrollReference  string
	CancelledBy       *uuid.UUID
	CancelledAt       *time.Time
	CreatedBy         uuid.UUID
}

// AdvanceParams carries the input for a new advance
type AdvanceParams struct {
	BranchID      uuid.UUID
	EmployeeID    uuid.UUID
	Amount        decimal.Decimal
	Reason        string
	PaymentMethod AdvancePaymentMethod
	Authorizer    identity.OperatorIdentity
	CreatedBy     uuid.UUID
}

// Validate checks the input that does not depend on the paying shift
func (p AdvanceParams) Validate() error {
	if p.BranchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	if p.EmployeeID == uuid.Nil {
		return shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if err := shared.ValidatePositiveAmount(p.Amount); err != nil {
		return err
	}
	if !p.PaymentMethod.IsValid() {
		return ErrInvalidAdvanceMethod
	}
	if utf8.RuneCountInString(strings.TrimSpace(p.Reason)) > MaxReasonLength {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}
	if p.CreatedBy == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATOR", "Creator cannot be empty")
	}
	if p.Authorizer.IsZero() {
		return cashier.ErrAuthorizationRequired
	}
	if !p.Authorizer.CanAuthorizeFor(p.BranchID) {
		return cashier.ErrAuthorizerNotPermitted
	}
	return nil
}

// NewSalaryAdvance creates an advance in CREATED state. Callers move it on
// with PayFromShift or AwaitTransfer in the same unit of work.
func NewSalaryAdvance(p AdvanceParams) (*SalaryAdvance, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	a := &SalaryAdvance{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(p.BranchID),
		EmployeeID:          p.EmployeeID,
		Amount:              p.Amount,
		Reason:              strings.TrimSpace(p.Reason),
		PaymentMethod:       p.PaymentMethod,
		Status:              AdvanceStatusCreated,
		AuthorizedBy:        p.Authorizer.ID(),
		CreatedBy:           p.CreatedBy,
	}
	a.AuthorizedAt = a.CreatedAt
	return a, nil
}

// PayFromShift pays a CASH advance out of shift and returns the EXPENSE
// movement that must be persisted together with the advance.
func (a *SalaryAdvance) PayFromShift(shift *cashier.CashRegisterShift, payer uuid.UUID, authorizer identity.OperatorIdentity) (*cashier.CashRegisterMovement, error) {
	if a.PaymentMethod != AdvancePaymentCash {
		return nil, ErrInvalidTransition
	}
	if a.Status != AdvanceStatusCreated {
		return nil, ErrInvalidTransition
	}
	if shift == nil {
		return nil, ErrShiftRequired
	}
	if !shift.IsOpen() {
		return nil, ErrShiftNotOpen
	}
	if shift.BranchID != a.BranchID {
		return nil, cashier.ErrShiftBranchMismatch
	}
	if authorizer.ID() != a.AuthorizedBy {
		return nil, cashier.ErrAuthorizerNotPermitted
	}

	advanceID := a.ID
	movement, err := cashier.NewMovement(shift, cashier.MovementParams{
		Type:            cashier.MovementTypeExpense,
		Category:        cashier.CategorySalaryAdvance,
		Amount:          a.Amount,
		Concept:         a.movementConcept(),
		PaymentMethod:   cashier.PaymentMethodCash,
		RecordedBy:      payer,
		OperatorID:      payer,
		Authorizer:      &authorizer,
		SalaryAdvanceID: &advanceID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	shiftID := shift.ID
	a.Status = AdvanceStatusPaid
	a.PaidBy = &payer
	a.PaidAt = &now
	a.ShiftID = &shiftID
	a.UpdatedAt = now
	a.AddDomainEvent(NewAdvanceCreatedEvent(a))
	return movement, nil
}

// AwaitTransfer parks a TRANSFER advance until the bank transfer is confirmed
func (a *SalaryAdvance) AwaitTransfer() error {
	if a.PaymentMethod != AdvancePaymentTransfer || a.Status != AdvanceStatusCreated {
		return ErrInvalidTransition
	}
	a.Status = AdvanceStatusPendingTransfer
	a.Touch()
	a.AddDomainEvent(NewAdvanceCreatedEvent(a))
	return nil
}

// MarkTransferred confirms the bank transfer of a pending advance
func (a *SalaryAdvance) MarkTransferred(by uuid.UUID, reference string) error {
	if !a.Status.CanConfirmTransfer() {
		return shared.NewDomainError(ErrInvalidTransition.Code,
			fmt.Sprintf("Cannot confirm transfer in %s status", a.Status))
	}
	reference = strings.TrimSpace(reference)
	if utf8.RuneCountInString(reference) > 100 {
		return shared.NewDomainError("INVALID_REFERENCE", "Transfer reference cannot exceed 100 characters")
	}
	now := time.Now()
	a.Status = AdvanceStatusTransferred
	a.TransferredBy = &by
	a.TransferredAt = &now
	a.TransferReference = reference
	a.UpdatedAt = now
	a.IncrementVersion()
	a.AddDomainEvent(NewAdvanceTransferredEvent(a))
	return nil
}

// Cancel moves the advance to CANCELLED. For a cash advance the caller must
// delete its movement in the same unit of work, after checking the paying
// shift is still open.
func (a *SalaryAdvance) Cancel(by uuid.UUID) error {
	if !a.Status.CanCancel() {
		return shared.NewDomainError(ErrAlreadyTerminal.Code,
			fmt.Sprintf("Cannot cancel an advance in %s status", a.Status))
	}
	now := time.Now()
	a.Status = AdvanceStatusCancelled
	a.CancelledBy = &by
	a.CancelledAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
	a.AddDomainEvent(NewAdvanceCancelledEvent(a))
	return nil
}

// MarkDeducted records that payroll has recovered the advance from wages
func (a *SalaryAdvance) MarkDeducted(payrollReference string) error {
	if !a.Status.CanDeduct() {
		return shared.NewDomainError(ErrInvalidTransition.Code,
			fmt.Sprintf("Cannot deduct an advance in %s status", a.Status))
	}
	now := time.Now()
	a.Status = AdvanceStatusDeducted
	a.DeductedAt = &now
	a.PayrollReference = strings.TrimSpace(payrollReference)
	a.UpdatedAt = now
	a.IncrementVersion()
	a.AddDomainEvent(NewAdvanceDeductedEvent(a))
	return nil
}

// HasCashMovement is true while the advance owns a ledger movement
func (a *SalaryAdvance) HasCashMovement() bool {
	return a.PaymentMethod == AdvancePaymentCash && a.Status == AdvanceStatusPaid
}

func (a *SalaryAdvance) movementConcept() string {
	concept := "Salary advance"
	if a.Reason != "" {
		concept += ": " + a.Reason
	}
	if utf8.RuneCountInString(concept) > cashier.MaxConceptLength {
		concept = string([]rune(concept)[:cashier.MaxConceptLength])
	}
	return concept
}
