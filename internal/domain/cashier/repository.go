package cashier

import (
	"context"
	"time"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

// RegisterFilter narrows register listings
type RegisterFilter struct {
	shared.Filter
	ActiveOnly bool
}

// ShiftFilter narrows shift listings
type ShiftFilter struct {
	shared.Filter
	BranchID   uuid.UUID
	RegisterID *uuid.UUID
	Status     *ShiftStatus
	From       *time.Time
	To         *time.Time
}

// DiscrepancyFilter narrows discrepancy history listings
type DiscrepancyFilter struct {
	shared.Filter
	BranchID   uuid.UUID
	OperatorID *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// CashRegisterRepository defines persistence operations for registers
type CashRegisterRepository interface {
	// FindByID returns the register or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindAllForBranch lists the branch's registers ordered by display order
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter RegisterFilter) ([]CashRegister, int64, error)

	// Create inserts a new register. A duplicate name in the branch returns ErrRegisterNameTaken.
	Create(ctx context.Context, register *CashRegister) error

	// Save updates the register's activation state with optimistic locking
	Save(ctx context.Context, register *CashRegister) error
}

// ShiftRepository defines persistence operations for shifts
type ShiftRepository interface {
	// FindByID returns the shift or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegisterShift, error)

	// FindByIDForUpdate returns the shift and holds a row lock on it until the
	// surrounding transaction ends. Writers of movements and the close path
	// serialize on this lock.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*CashRegisterShift, error)

	// FindOpenByRegister returns the register's open shift or shared.ErrNotFound
	FindOpenByRegister(ctx context.Context, registerID uuid.UUID) (*CashRegisterShift, error)

	// FindAll lists shifts matching filter with the total count
	FindAll(ctx context.Context, filter ShiftFilter) ([]CashRegisterShift, int64, error)

	// Create inserts an open shift. The store allows one open shift per
	// register; a violation returns ErrRegisterAlreadyOpen.
	Create(ctx context.Context, shift *CashRegisterShift) error

	// SaveClosed persists the closing fields of a shift that was open.
	// If the stored shift is no longer open it returns ErrShiftAlreadyClosed.
	SaveClosed(ctx context.Context, shift *CashRegisterShift) error
}

// MovementRepository defines persistence operations for movements
type MovementRepository interface {
	// Create appends a movement. A second movement for the same salary advance
	// returns shared.ErrConflict.
	Create(ctx context.Context, movement *CashRegisterMovement) error

	// FindByShift returns the shift's movements ordered by creation time
	FindByShift(ctx context.Context, shiftID uuid.UUID) ([]CashRegisterMovement, error)

	// FindByAdvance returns the movement linked to a salary advance or shared.ErrNotFound
	FindByAdvance(ctx context.Context, advanceID uuid.UUID) (*CashRegisterMovement, error)

	// CountByAdvance returns how many movements reference a salary advance
	CountByAdvance(ctx context.Context, advanceID uuid.UUID) (int64, error)

	// DeleteByAdvance removes the movement linked to a salary advance and
	// returns the number of rows removed. Zero rows is not an error.
	DeleteByAdvance(ctx context.Context, advanceID uuid.UUID) (int64, error)
}

// DiscrepancyRepository defines persistence operations for the discrepancy history
type DiscrepancyRepository interface {
	// Create appends a record; one record per shift
	Create(ctx context.Context, record *DiscrepancyRecord) error

	// FindByShift returns the shift's record or shared.ErrNotFound
	FindByShift(ctx context.Context, shiftID uuid.UUID) (*DiscrepancyRecord, error)

	// FindByOperator returns the operator's records within the optional date range
	FindByOperator(ctx context.Context, operatorID uuid.UUID, from, to *time.Time) ([]DiscrepancyRecord, error)

	// FindAll lists records matching filter with the total count
	FindAll(ctx context.Context, filter DiscrepancyFilter) ([]DiscrepancyRecord, int64, error)
}
