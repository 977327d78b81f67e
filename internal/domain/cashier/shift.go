package cashier

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShiftStatus represents the status of a register shift
type ShiftStatus string

const (
	ShiftStatusOpen   ShiftStatus = "OPEN"
	ShiftStatusClosed ShiftStatus = "CLOSED"
)

// IsValid returns true if the status is a known value
func (s ShiftStatus) IsValid() bool {
	return s == ShiftStatusOpen || s == ShiftStatusClosed
}

// String returns the string representation
func (s ShiftStatus) String() string {
	return string(s)
}

// IsTerminal returns true once the shift can no longer change
func (s ShiftStatus) IsTerminal() bool {
	return s == ShiftStatusClosed
}

// AcceptsMovements returns true if movements may be written against the shift
func (s ShiftStatus) AcceptsMovements() bool {
	return s == ShiftStatusOpen
}

// MaxNotesLength caps the closing notes
const MaxNotesLength = 1000

// CashRegisterShift is one open/close cycle of a register.
// At most one shift per register is OPEN at any time; a CLOSED shift is immutable.
type CashRegisterShift struct {
	shared.BranchAggregateRoot
	RegisterID     uuid.UUID
	OpenedBy       uuid.UUID
	OpeningAmount  decimal.Decimal
	OpenedAt       time.Time
	Status         ShiftStatus
	ClosedBy       *uuid.UUID
	ClosedAt       *time.Time
	CountedAmount  *decimal.Decimal
	ExpectedAmount *decimal.Decimal
	Discrepancy    *decimal.Decimal
	Notes          string
}

// OpenShift starts a shift on register with the given opening float
func OpenShift(register *CashRegister, operatorID uuid.UUID, openingAmount decimal.Decimal) (*CashRegisterShift, error) {
	if err := shared.ValidateNonNegativeAmount(openingAmount); err != nil {
		return nil, err
	}
	if operatorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OPERATOR", "Operator ID cannot be empty")
	}
	if err := register.EnsureOperational(); err != nil {
		return nil, err
	}

	s := &CashRegisterShift{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(register.BranchID),
		RegisterID:          register.ID,
		OpenedBy:            operatorID,
		OpeningAmount:       openingAmount,
		Status:              ShiftStatusOpen,
	}
	s.OpenedAt = s.CreatedAt
	s.AddDomainEvent(NewShiftOpenedEvent(s))
	return s, nil
}

// IsOpen returns true while the shift accepts movements
func (s *CashRegisterShift) IsOpen() bool {
	return s.Status.AcceptsMovements()
}

// EnsureOpen returns ErrShiftClosed unless the shift is open
func (s *CashRegisterShift) EnsureOpen() error {
	if !s.IsOpen() {
		return ErrShiftClosed
	}
	return nil
}

// Close records the reconciliation result and closes the shift
func (s *CashRegisterShift) Close(operatorID uuid.UUID, result ReconciliationResult, notes string) error {
	if s.Status.IsTerminal() {
		return ErrShiftAlreadyClosed
	}
	if operatorID == uuid.Nil {
		return shared.NewDomainError("INVALID_OPERATOR", "Operator ID cannot be empty")
	}
	if result.ShiftID != s.ID {
		return shared.NewDomainError("INVALID_RECONCILIATION", fmt.Sprintf("Reconciliation belongs to shift %s", result.ShiftID))
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > MaxNotesLength {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 1000 characters")
	}

	now := time.Now()
	counted := result.Counted
	expected := result.Expected
	discrepancy := result.Discrepancy

	s.Status = ShiftStatusClosed
	s.ClosedBy = &operatorID
	s.ClosedAt = &now
	s.CountedAmount = &counted
	s.ExpectedAmount = &expected
	s.Discrepancy = &discrepancy
	s.Notes = notes
	s.UpdatedAt = now
	s.IncrementVersion()

	s.AddDomainEvent(NewShiftClosedEvent(s))
	return nil
}

// ShiftDate is the business date the shift belongs to
func (s *CashRegisterShift) ShiftDate() time.Time {
	y, m, d := s.OpenedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.OpenedAt.Location())
}
