package cashier

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/logger"
	"github.com/erp/cashledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShiftService opens and closes register shifts
type ShiftService struct {
	shiftRepo    cashier.ShiftRepository
	movementRepo cashier.MovementRepository
	txScope      TransactionScope
	logger       *zap.Logger
}

// NewShiftService creates a new shift service
func NewShiftService(
	shiftRepo cashier.ShiftRepository,
	movementRepo cashier.MovementRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *ShiftService {
	return &ShiftService{
		shiftRepo:    shiftRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// OpenShift starts a shift on a register. A second open shift on the same
// register is rejected by the store and reported as ErrRegisterAlreadyOpen.
func (s *ShiftService) OpenShift(ctx context.Context, input OpenShiftInput) (*ShiftDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shift", "open")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBranchID, input.BranchID.String(),
		telemetry.SpanAttrRegisterID, input.RegisterID.String(),
		telemetry.SpanAttrOperatorID, input.OperatorID.String(),
	)

	if err := shared.ValidateNonNegativeAmount(input.OpeningAmount); err != nil {
		return nil, err
	}

	var shift *cashier.CashRegisterShift
	var err error
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("open_shift", input.BranchID.String()), func(c context.Context) {
		err = s.txScope.Execute(c, func(repos TransactionalRepositories) error {
			register, err := loadRegister(c, repos.RegisterRepo(), input.BranchID, input.RegisterID)
			if err != nil {
				return err
			}
			if err := ensureOperator(c, repos.OperatorRepo(), input.BranchID, input.OperatorID); err != nil {
				return err
			}
			shift, err = cashier.OpenShift(register, input.OperatorID, input.OpeningAmount)
			if err != nil {
				return err
			}
			if err := repos.ShiftRepo().Create(c, shift); err != nil {
				return err
			}
			return recordEvents(c, repos, shift)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapError("open shift", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrShiftID, shift.ID.String())
	logger.Enrich(ctx, s.logger).Info("Shift opened",
		zap.String("shift_id", shift.ID.String()),
		zap.String("register_id", shift.RegisterID.String()),
		zap.String("opening_amount", shift.OpeningAmount.StringFixed(2)))

	dto := ToShiftDTO(shift)
	return &dto, nil
}

// CloseShift reconciles and closes a shift.
//
// The shift row is locked first, so the movements summed are exactly the
// movements the shift will ever have: a concurrent RecordMovement either
// committed before the lock was granted or finds the shift closed.
func (s *ShiftService) CloseShift(ctx context.Context, input CloseShiftInput) (*CloseShiftResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "shift", "close")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBranchID, input.BranchID.String(),
		telemetry.SpanAttrShiftID, input.ShiftID.String(),
		telemetry.SpanAttrOperatorID, input.OperatorID.String(),
	)

	if err := shared.ValidateNonNegativeAmount(input.CountedAmount); err != nil {
		return nil, err
	}

	var (
		shift  *cashier.CashRegisterShift
		result cashier.ReconciliationResult
		err    error
	)
	telemetry.WithProfilingLabels(ctx, telemetry.OperationLabels("close_shift", input.BranchID.String()), func(c context.Context) {
		err = s.txScope.Execute(c, func(repos TransactionalRepositories) error {
			var err error
			shift, err = loadShift(c, repos.ShiftRepo(), input.BranchID, input.ShiftID, true)
			if err != nil {
				return err
			}
			if !shift.IsOpen() {
				return cashier.ErrShiftAlreadyClosed
			}
			if err := ensureOperator(c, repos.OperatorRepo(), input.BranchID, input.OperatorID); err != nil {
				return err
			}

			movements, err := repos.MovementRepo().FindByShift(c, shift.ID)
			if err != nil {
				return fmt.Errorf("failed to load movements: %w", err)
			}
			result, err = cashier.Reconcile(shift, movements, input.CountedAmount)
			if err != nil {
				return err
			}
			if err := shift.Close(input.OperatorID, result, input.Notes); err != nil {
				return err
			}
			if err := repos.ShiftRepo().SaveClosed(c, shift); err != nil {
				return err
			}

			record, err := cashier.NewDiscrepancyRecord(shift)
			if err != nil {
				return err
			}
			if err := repos.DiscrepancyRepo().Create(c, record); err != nil {
				return fmt.Errorf("failed to write discrepancy record: %w", err)
			}
			return recordEvents(c, repos, shift)
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapError("close shift", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrDiscrepancy, result.Discrepancy.String())
	log := logger.Enrich(ctx, s.logger).With(
		zap.String("shift_id", shift.ID.String()),
		zap.String("expected", result.Expected.StringFixed(2)),
		zap.String("counted", result.Counted.StringFixed(2)),
		zap.String("discrepancy", result.Discrepancy.StringFixed(2)))
	if result.IsExact() {
		log.Info("Shift closed")
	} else {
		log.Warn("Shift closed with discrepancy")
	}

	closed := newCloseShiftResult(shift, result)
	return &closed, nil
}

// GetOpenShift returns the register's open shift, or nil when the register is closed
func (s *ShiftService) GetOpenShift(ctx context.Context, branchID, registerID uuid.UUID) (*ShiftDTO, error) {
	shift, err := s.shiftRepo.FindOpenByRegister(ctx, registerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load open shift: %w", err)
	}
	if shift.BranchID != branchID {
		return nil, nil
	}
	dto := ToShiftDTO(shift)
	return &dto, nil
}

// GetShift returns a shift of the branch
func (s *ShiftService) GetShift(ctx context.Context, branchID, shiftID uuid.UUID) (*ShiftDTO, error) {
	shift, err := loadShift(ctx, s.shiftRepo, branchID, shiftID, false)
	if err != nil {
		return nil, err
	}
	dto := ToShiftDTO(shift)
	return &dto, nil
}

// ListShifts lists the branch's shifts, newest first
func (s *ShiftService) ListShifts(ctx context.Context, input ListShiftsInput) (*shared.Paginated[ShiftDTO], error) {
	filter := cashier.ShiftFilter{
		Filter: shared.Filter{
			Page:     input.Page,
			PageSize: input.PageSize,
			OrderBy:  "opened_at",
			OrderDir: "desc",
		}.Normalize(),
		BranchID:   input.BranchID,
		RegisterID: input.RegisterID,
		Status:     input.Status,
		From:       input.From,
		To:         input.To,
	}
	shifts, total, err := s.shiftRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	result := shared.NewPaginated(mapSlice(shifts, ToShiftDTO), total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetShiftSummary returns the shift, its movements with the running
// expected balance, and the totals. Everything is recomputed from the
// movements on each call.
func (s *ShiftService) GetShiftSummary(ctx context.Context, branchID, shiftID uuid.UUID) (*ShiftSummaryDTO, error) {
	shift, err := loadShift(ctx, s.shiftRepo, branchID, shiftID, false)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}

	running := shift.OpeningAmount
	lines := make([]SummaryLine, len(movements))
	for i := range movements {
		running = running.Add(movements[i].SignedAmount())
		lines[i] = SummaryLine{
			MovementDTO:    ToMovementDTO(&movements[i]),
			RunningBalance: running,
		}
	}

	return &ShiftSummaryDTO{
		Shift:     ToShiftDTO(shift),
		Balance:   cashier.ComputeBalance(shift.OpeningAmount, movements),
		Movements: lines,
	}, nil
}
