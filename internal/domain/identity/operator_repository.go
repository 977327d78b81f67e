package identity

import (
	"context"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

// OperatorFilter narrows operator listings
type OperatorFilter struct {
	shared.Filter
	Status *OperatorStatus
	Role   *OperatorRole
}

// OperatorRepository defines persistence operations for operators
type OperatorRepository interface {
	// FindByID returns the operator or shared.ErrNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*Operator, error)

	// FindByPinLookup returns every operator of the branch, active or not,
	// whose PIN digest matches lookup
	FindByPinLookup(ctx context.Context, branchID uuid.UUID, lookup string) ([]Operator, error)

	// ExistsActiveWithPin reports whether an active operator other than
	// excludeID holds the PIN digest
	ExistsActiveWithPin(ctx context.Context, branchID uuid.UUID, lookup string, excludeID *uuid.UUID) (bool, error)

	// FindAllForBranch lists operators of a branch with the total count
	FindAllForBranch(ctx context.Context, branchID uuid.UUID, filter OperatorFilter) ([]Operator, int64, error)

	// Create inserts a new operator. A PIN collision with another active
	// operator of the branch returns ErrPinInUse.
	Create(ctx context.Context, op *Operator) error

	// Save updates an existing operator using its version for optimistic
	// locking. A PIN collision returns ErrPinInUse.
	Save(ctx context.Context, op *Operator) error
}
