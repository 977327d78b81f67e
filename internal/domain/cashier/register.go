package cashier

import (
	"strings"
	"unicode/utf8"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

// CashRegister is a physical till of a branch. Only its activation state
// changes after creation.
type CashRegister struct {
	shared.BranchAggregateRoot
	Name         string
	DisplayOrder int
	IsActive     bool
}

// NewCashRegister creates an active register
func NewCashRegister(branchID uuid.UUID, name string, displayOrder int) (*CashRegister, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Register name is required and cannot exceed 100 characters")
	}
	if displayOrder < 0 {
		return nil, shared.NewDomainError("INVALID_DISPLAY_ORDER", "Display order cannot be negative")
	}

	r := &CashRegister{
		BranchAggregateRoot: shared.NewBranchAggregateRoot(branchID),
		Name:                name,
		DisplayOrder:        displayOrder,
		IsActive:            true,
	}
	r.AddDomainEvent(NewRegisterCreatedEvent(r))
	return r, nil
}

// Activate enables the register
func (r *CashRegister) Activate() error {
	if r.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Register is already active")
	}
	r.IsActive = true
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewRegisterStatusChangedEvent(r))
	return nil
}

// Deactivate disables the register; no new shift can be opened on it
func (r *CashRegister) Deactivate() error {
	if !r.IsActive {
		return shared.NewDomainError("INVALID_STATE", "Register is already inactive")
	}
	r.IsActive = false
	r.Touch()
	r.IncrementVersion()
	r.AddDomainEvent(NewRegisterStatusChangedEvent(r))
	return nil
}

// EnsureOperational returns ErrRegisterInactive for disabled registers
func (r *CashRegister) EnsureOperational() error {
	if !r.IsActive {
		return ErrRegisterInactive
	}
	return nil
}
