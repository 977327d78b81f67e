package cashier

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
)

var errOperatorNotInBranch = shared.NewDomainError(identity.ErrOperatorNotFound.Code, "Operator not found in this branch")

// loadRegister returns the register of branchID or ErrRegisterNotFound
func loadRegister(ctx context.Context, repo cashier.CashRegisterRepository, branchID, id uuid.UUID) (*cashier.CashRegister, error) {
	r, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, cashier.ErrRegisterNotFound
		}
		return nil, fmt.Errorf("failed to load register: %w", err)
	}
	if r.BranchID != branchID {
		return nil, cashier.ErrRegisterNotFound
	}
	return r, nil
}

// loadShift returns the shift of branchID or ErrShiftNotFound. With forUpdate
// the shift row stays locked until the transaction ends.
func loadShift(ctx context.Context, repo cashier.ShiftRepository, branchID, id uuid.UUID, forUpdate bool) (*cashier.CashRegisterShift, error) {
	var (
		s   *cashier.CashRegisterShift
		err error
	)
	if forUpdate {
		s, err = repo.FindByIDForUpdate(ctx, id)
	} else {
		s, err = repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, cashier.ErrShiftNotFound
		}
		return nil, fmt.Errorf("failed to load shift: %w", err)
	}
	if s.BranchID != branchID {
		return nil, cashier.ErrShiftNotFound
	}
	return s, nil
}

// loadAdvance returns the advance of branchID or ErrAdvanceNotFound
func loadAdvance(ctx context.Context, repo payroll.SalaryAdvanceRepository, branchID, id uuid.UUID, forUpdate bool) (*payroll.SalaryAdvance, error) {
	var (
		a   *payroll.SalaryAdvance
		err error
	)
	if forUpdate {
		a, err = repo.FindByIDForUpdate(ctx, id)
	} else {
		a, err = repo.FindByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, payroll.ErrAdvanceNotFound
		}
		return nil, fmt.Errorf("failed to load salary advance: %w", err)
	}
	if a.BranchID != branchID {
		return nil, payroll.ErrAdvanceNotFound
	}
	return a, nil
}

// ensureOperator checks operatorID is an active operator of branchID
func ensureOperator(ctx context.Context, repo identity.OperatorRepository, branchID, operatorID uuid.UUID) error {
	op, err := repo.FindByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return errOperatorNotInBranch
		}
		return fmt.Errorf("failed to load operator: %w", err)
	}
	if op.BranchID != branchID {
		return errOperatorNotInBranch
	}
	return op.EnsureActive()
}

// wrapError passes domain errors through and wraps everything else
func wrapError(action string, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
