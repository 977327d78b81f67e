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

// LedgerService records and queries the movements of shifts
type LedgerService struct {
	shiftRepo    cashier.ShiftRepository
	movementRepo cashier.MovementRepository
	txScope      TransactionScope
	logger       *zap.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	shiftRepo cashier.ShiftRepository,
	movementRepo cashier.MovementRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		shiftRepo:    shiftRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// RecordMovement appends a movement to an open shift. The shift row is
// locked for the duration of the write so the movement can never land in a
// shift that a concurrent close has already summed.
func (s *LedgerService) RecordMovement(ctx context.Context, input RecordMovementInput) (*MovementDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_movement")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBranchID, input.BranchID.String(),
		telemetry.SpanAttrShiftID, input.ShiftID.String(),
		telemetry.SpanAttrMovement, string(input.Type),
		telemetry.SpanAttrAmount, input.Amount.String(),
	)

	params := cashier.MovementParams{
		Type:                  input.Type,
		Category:              input.Category,
		Amount:                input.Amount,
		Concept:               input.Concept,
		PaymentMethod:         input.PaymentMethod,
		RecordedBy:            input.RecordedBy,
		OperatorID:            input.OperatorID,
		Authorizer:            input.Authorizer,
		SalaryAdvanceID:       input.SalaryAdvanceID,
		RequiresAuthorization: input.RequiresAuthorization,
	}.Normalize()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var movement *cashier.CashRegisterMovement
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		shift, err := loadShift(ctx, repos.ShiftRepo(), input.BranchID, input.ShiftID, true)
		if err != nil {
			return err
		}
		if err := ensureOperator(ctx, repos.OperatorRepo(), input.BranchID, input.OperatorID); err != nil {
			return err
		}
		movement, err = cashier.NewMovement(shift, params)
		if err != nil {
			return err
		}
		if err := repos.MovementRepo().Create(ctx, movement); err != nil {
			return err
		}
		return recordEvents(ctx, repos, movement)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapError("record movement", err)
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrMovementID, movement.ID.String())
	logger.Enrich(ctx, s.logger).Info("Movement recorded",
		zap.String("shift_id", movement.ShiftID.String()),
		zap.String("movement_id", movement.ID.String()),
		zap.String("type", string(movement.Type)),
		zap.String("category", string(movement.Category)),
		zap.String("amount", movement.Amount.StringFixed(2)))

	dto := ToMovementDTO(movement)
	return &dto, nil
}

// ListMovements returns a shift's movements ordered by creation time
func (s *LedgerService) ListMovements(ctx context.Context, branchID, shiftID uuid.UUID) ([]MovementDTO, error) {
	shift, err := loadShift(ctx, s.shiftRepo, branchID, shiftID, false)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return mapSlice(movements, ToMovementDTO), nil
}

// ComputeBalance derives the expected cash of a shift from its movements
func (s *LedgerService) ComputeBalance(ctx context.Context, branchID, shiftID uuid.UUID) (*cashier.Balance, error) {
	shift, err := loadShift(ctx, s.shiftRepo, branchID, shiftID, false)
	if err != nil {
		return nil, err
	}
	movements, err := s.movementRepo.FindByShift(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movements: %w", err)
	}
	balance := cashier.ComputeBalance(shift.OpeningAmount, movements)
	return &balance, nil
}

// DeleteMovementByAdvance removes the movement a salary advance produced.
// Deleting twice is not an error; the second call removes nothing.
func (s *LedgerService) DeleteMovementByAdvance(ctx context.Context, advanceID uuid.UUID) (int64, error) {
	var deleted int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		deleted, err = deleteMovementByAdvance(ctx, repos, advanceID)
		return err
	})
	if err != nil {
		return 0, wrapError("delete advance movement", err)
	}
	return deleted, nil
}

// deleteMovementByAdvance deletes the advance's movement inside repos'
// transaction and records the deletion event
func deleteMovementByAdvance(ctx context.Context, repos TransactionalRepositories, advanceID uuid.UUID) (int64, error) {
	movement, err := repos.MovementRepo().FindByAdvance(ctx, advanceID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to load advance movement: %w", err)
	}
	deleted, err := repos.MovementRepo().DeleteByAdvance(ctx, advanceID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete advance movement: %w", err)
	}
	if deleted == 0 {
		return 0, nil
	}
	if err := repos.Events().Record(ctx, cashier.NewMovementDeletedEvent(movement, advanceID)); err != nil {
		return 0, err
	}
	return deleted, nil
}
