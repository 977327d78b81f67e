package payroll

import (
	"context"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

// AdvanceFilter narrows salary advance listings
type AdvanceFilter struct {
	shared.Filter
	BranchID   uuid.UUID
	EmployeeID *uuid.UUID
	Status     *AdvanceStatus
}

// SalaryAdvanceRepository defines persistence operations for salary advances
type SalaryAdvanceRepository interface {
	// FindByID returns the advance or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryAdvance, error)

	// FindByIDForUpdate returns the advance holding a row lock until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SalaryAdvance, error)

	// FindAll lists advances matching filter with the total count
	FindAll(ctx context.Context, filter AdvanceFilter) ([]SalaryAdvance, int64, error)

	// Create inserts a new advance
	Create(ctx context.Context, advance *SalaryAdvance) error

	// Save persists a status transition with optimistic locking.
	// A stale version returns shared.ErrConcurrencyConflict.
	Save(ctx context.Context, advance *SalaryAdvance) error
}
