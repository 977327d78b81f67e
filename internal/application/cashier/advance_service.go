package cashier

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/logger"
	"github.com/erp/cashledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdvanceService runs the salary advance workflow
type AdvanceService struct {
	advanceRepo payroll.SalaryAdvanceRepository
	txScope     TransactionScope
	logger      *zap.Logger
}

// NewAdvanceService creates a new advance service
func NewAdvanceService(
	advanceRepo payroll.SalaryAdvanceRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *AdvanceService {
	return &AdvanceService{
		advanceRepo: advanceRepo,
		txScope:     txScope,
		logger:      logger,
	}
}

// CreateAdvance grants a salary advance.
//
// A CASH advance is paid from the given open shift: the advance row, its
// PAID status and the SALARY_ADVANCE expense movement are written in one
// transaction. A TRANSFER advance waits in PENDING_TRANSFER and never
// touches the ledger.
func (s *AdvanceService) CreateAdvance(ctx context.Context, input CreateAdvanceInput) (*AdvanceDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advance", "create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBranchID, input.BranchID.String(),
		telemetry.SpanAttrAmount, input.Amount.String(),
	)

	advance, err := payroll.NewSalaryAdvance(payroll.AdvanceParams{
		BranchID:      input.BranchID,
		EmployeeID:    input.EmployeeID,
		Amount:        input.Amount,
		Reason:        input.Reason,
		PaymentMethod: input.PaymentMethod,
		Authorizer:    input.Authorizer,
		CreatedBy:     input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	if advance.PaymentMethod == payroll.AdvancePaymentCash && input.ShiftID == nil {
		return nil, payroll.ErrShiftRequired
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if advance.PaymentMethod == payroll.AdvancePaymentTransfer {
			if err := advance.AwaitTransfer(); err != nil {
				return err
			}
			if err := repos.AdvanceRepo().Create(ctx, advance); err != nil {
				return err
			}
			return recordEvents(ctx, repos, advance)
		}

		// loaded without the branch filter so a foreign shift reports a branch mismatch
		shift, err := repos.ShiftRepo().FindByIDForUpdate(ctx, *input.ShiftID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return cashier.ErrShiftNotFound
			}
			return fmt.Errorf("failed to load shift: %w", err)
		}
		if shift.BranchID != input.BranchID {
			return cashier.ErrShiftBranchMismatch
		}
		payer := input.PaidBy
		if payer == uuid.Nil {
			payer = shift.OpenedBy
		}
		if err := ensureOperator(ctx, repos.OperatorRepo(), input.BranchID, payer); err != nil {
			return err
		}
		movement, err := advance.PayFromShift(shift, payer, input.Authorizer)
		if err != nil {
			return err
		}
		if err := repos.AdvanceRepo().Create(ctx, advance); err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		return recordEvents(ctx, repos, advance, movement)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapError("create salary advance", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAdvanceID, advance.ID.String())
	logger.Enrich(ctx, s.logger).Info("Salary advance created",
		zap.String("advance_id", advance.ID.String()),
		zap.String("employee_id", advance.EmployeeID.String()),
		zap.String("payment_method", string(advance.PaymentMethod)),
		zap.String("status", string(advance.Status)))

	dto := ToAdvanceDTO(advance)
	return &dto, nil
}

// MarkTransferred confirms the bank transfer of a pending advance
func (s *AdvanceService) MarkTransferred(ctx context.Context, branchID, advanceID, operatorID uuid.UUID, reference string) (*AdvanceDTO, error) {
	return s.transition(ctx, "transfer", branchID, advanceID, func(repos TransactionalRepositories, a *payroll.SalaryAdvance) error {
		if err := ensureOperator(ctx, repos.OperatorRepo(), branchID, operatorID); err != nil {
			return err
		}
		return a.MarkTransferred(operatorID, reference)
	})
}

// CancelAdvance cancels an advance. Cancelling a cash advance deletes its
// movement, which is only possible while the paying shift is open. An
// advance that is already cancelled is returned unchanged.
func (s *AdvanceService) CancelAdvance(ctx context.Context, branchID, advanceID, operatorID uuid.UUID) (*AdvanceDTO, error) {
	return s.transition(ctx, "cancel", branchID, advanceID, func(repos TransactionalRepositories, a *payroll.SalaryAdvance) error {
		if a.Status == payroll.AdvanceStatusCancelled {
			return errUnchanged
		}
		if err := ensureOperator(ctx, repos.OperatorRepo(), branchID, operatorID); err != nil {
			return err
		}

		hadMovement := a.HasCashMovement()
		if err := a.Cancel(operatorID); err != nil {
			return err
		}
		if !hadMovement {
			return nil
		}

		shift, err := loadShift(ctx, repos.ShiftRepo(), branchID, *a.ShiftID, true)
		if err != nil {
			return err
		}
		if !shift.IsOpen() {
			return cashier.ErrShiftClosed
		}
		_, err = deleteMovementByAdvance(ctx, repos, a.ID)
		return err
	})
}

// MarkDeducted records the payroll deduction of a paid or transferred advance
func (s *AdvanceService) MarkDeducted(ctx context.Context, branchID, advanceID uuid.UUID, payrollReference string) (*AdvanceDTO, error) {
	return s.transition(ctx, "deduct", branchID, advanceID, func(_ TransactionalRepositories, a *payroll.SalaryAdvance) error {
		return a.MarkDeducted(payrollReference)
	})
}

// GetAdvance returns an advance of the branch
func (s *AdvanceService) GetAdvance(ctx context.Context, branchID, advanceID uuid.UUID) (*AdvanceDTO, error) {
	advance, err := loadAdvance(ctx, s.advanceRepo, branchID, advanceID, false)
	if err != nil {
		return nil, err
	}
	dto := ToAdvanceDTO(advance)
	return &dto, nil
}

// ListAdvances lists the branch's advances, newest first
func (s *AdvanceService) ListAdvances(ctx context.Context, input ListAdvancesInput) (*shared.Paginated[AdvanceDTO], error) {
	filter := payroll.AdvanceFilter{
		Filter: shared.Filter{
			Page:     input.Page,
			PageSize: input.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
		}.Normalize(),
		BranchID:   input.BranchID,
		EmployeeID: input.EmployeeID,
		Status:     input.Status,
	}
	advances, total, err := s.advanceRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list salary advances: %w", err)
	}
	result := shared.NewPaginated(mapSlice(advances, ToAdvanceDTO), total, filter.Page, filter.PageSize)
	return &result, nil
}

// errUnchanged stops a transition without writing and without failing
var errUnchanged = errors.New("advance unchanged")

// transition locks the advance, applies change and saves it with its events
func (s *AdvanceService) transition(
	ctx context.Context,
	action string,
	branchID, advanceID uuid.UUID,
	change func(repos TransactionalRepositories, a *payroll.SalaryAdvance) error,
) (*AdvanceDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "advance", action)
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAdvanceID, advanceID.String())

	var advance *payroll.SalaryAdvance
	unchanged := false
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		advance, err = loadAdvance(ctx, repos.AdvanceRepo(), branchID, advanceID, true)
		if err != nil {
			return err
		}
		if err := change(repos, advance); err != nil {
			if errors.Is(err, errUnchanged) {
				unchanged = true
				return nil
			}
			return err
		}
		if err := repos.AdvanceRepo().Save(ctx, advance); err != nil {
			return err
		}
		return recordEvents(ctx, repos, advance)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapError(action+" salary advance", err)
	}

	if !unchanged {
		logger.Enrich(ctx, s.logger).Info("Salary advance transitioned",
			zap.String("advance_id", advance.ID.String()),
			zap.String("action", action),
			zap.String("status", string(advance.Status)))
	}
	dto := ToAdvanceDTO(advance)
	return &dto, nil
}
