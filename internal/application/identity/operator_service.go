package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/logger"
	"github.com/erp/cashledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errOperatorIDNotFound is returned for lookups by ID. It shares its code
// with identity.ErrOperatorNotFound.
var errOperatorIDNotFound = shared.NewDomainError(identity.ErrOperatorNotFound.Code, "Operator not found")

// OperatorService verifies operator PINs and maintains the branch operator directory
type OperatorService struct {
	operatorRepo identity.OperatorRepository
	txScope      TransactionScope
	hasher       identity.PinHasher
	logger       *zap.Logger
}

// NewOperatorService creates a new operator service
func NewOperatorService(
	operatorRepo identity.OperatorRepository,
	txScope TransactionScope,
	hasher identity.PinHasher,
	logger *zap.Logger,
) *OperatorService {
	return &OperatorService{
		operatorRepo: operatorRepo,
		txScope:      txScope,
		hasher:       hasher,
		logger:       logger,
	}
}

// VerifyOperator resolves a PIN typed at a register of branchID to the
// operator holding it. An inactive operator with the PIN yields
// ErrOperatorInactive; no holder at all yields ErrOperatorNotFound.
func (s *OperatorService) VerifyOperator(ctx context.Context, branchID uuid.UUID, pin string) (identity.OperatorIdentity, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "operator", "verify")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrBranchID, branchID.String())

	if err := identity.ValidatePin(pin); err != nil {
		return identity.OperatorIdentity{}, err
	}

	matches, err := s.operatorRepo.FindByPinLookup(ctx, branchID, s.hasher.Lookup(branchID, pin))
	if err != nil {
		telemetry.RecordError(span, err)
		return identity.OperatorIdentity{}, fmt.Errorf("failed to look up operator: %w", err)
	}

	sawInactive := false
	for i := range matches {
		op := &matches[i]
		if !op.VerifyPin(pin, s.hasher) {
			continue
		}
		if op.IsActive() {
			telemetry.SetAttributes(span, telemetry.SpanAttrOperatorID, op.ID.String())
			return op.Identity(), nil
		}
		sawInactive = true
	}

	if sawInactive {
		return identity.OperatorIdentity{}, identity.ErrOperatorInactive
	}
	return identity.OperatorIdentity{}, identity.ErrOperatorNotFound
}

// ResolveOperator returns the identity of an active operator of branchID
func (s *OperatorService) ResolveOperator(ctx context.Context, branchID, operatorID uuid.UUID) (identity.OperatorIdentity, error) {
	op, err := s.findInBranch(ctx, s.operatorRepo, branchID, operatorID)
	if err != nil {
		return identity.OperatorIdentity{}, err
	}
	if err := op.EnsureActive(); err != nil {
		return identity.OperatorIdentity{}, err
	}
	return op.Identity(), nil
}

// CheckPinAvailable reports whether no active operator of the branch other
// than excludeID holds pin. The answer is advisory: writes are guarded by the
// store's unique index.
func (s *OperatorService) CheckPinAvailable(ctx context.Context, branchID uuid.UUID, pin string, excludeID *uuid.UUID) (bool, error) {
	if err := identity.ValidatePin(pin); err != nil {
		return false, err
	}
	taken, err := s.operatorRepo.ExistsActiveWithPin(ctx, branchID, s.hasher.Lookup(branchID, pin), excludeID)
	if err != nil {
		return false, fmt.Errorf("failed to check pin availability: %w", err)
	}
	return !taken, nil
}

// RegisterOperator adds an active operator to a branch
func (s *OperatorService) RegisterOperator(ctx context.Context, input RegisterOperatorInput) (*OperatorDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "operator", "register")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrBranchID, input.BranchID.String())

	op, err := identity.NewOperator(input.BranchID, input.Name, input.Role, input.Pin, s.hasher)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(tx OperatorTransaction) error {
		if err := tx.OperatorRepo().Create(ctx, op); err != nil {
			return err
		}
		return s.recordEvents(ctx, tx, op)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, wrapWriteError("register operator", err)
	}

	logger.Enrich(ctx, s.logger).Info("Operator registered",
		zap.String("operator_id", op.ID.String()),
		zap.String("role", string(op.Role)))

	dto := ToOperatorDTO(op)
	return &dto, nil
}

// AssignPin replaces an operator's PIN
func (s *OperatorService) AssignPin(ctx context.Context, branchID, operatorID uuid.UUID, pin string) (*OperatorDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "operator", "assign_pin")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrOperatorID, operatorID.String())

	op, err := s.modify(ctx, branchID, operatorID, func(_ OperatorTransaction, op *identity.Operator) error {
		return op.AssignPin(pin, s.hasher)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Operator PIN assigned", zap.String("operator_id", op.ID.String()))
	dto := ToOperatorDTO(op)
	return &dto, nil
}

// DeactivateOperator takes an operator off duty and frees the PIN
func (s *OperatorService) DeactivateOperator(ctx context.Context, branchID, operatorID uuid.UUID) (*OperatorDTO, error) {
	op, err := s.modify(ctx, branchID, operatorID, func(_ OperatorTransaction, op *identity.Operator) error {
		return op.Deactivate()
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Operator deactivated", zap.String("operator_id", op.ID.String()))
	dto := ToOperatorDTO(op)
	return &dto, nil
}

// ActivateOperator returns an operator to duty. Fails with ErrPinInUse if
// another active operator took the PIN in the meantime.
func (s *OperatorService) ActivateOperator(ctx context.Context, branchID, operatorID uuid.UUID) (*OperatorDTO, error) {
	op, err := s.modify(ctx, branchID, operatorID, func(tx OperatorTransaction, op *identity.Operator) error {
		taken, err := tx.OperatorRepo().ExistsActiveWithPin(ctx, op.BranchID, op.PinLookup, &op.ID)
		if err != nil {
			return fmt.Errorf("failed to check pin availability: %w", err)
		}
		if taken {
			return identity.ErrPinInUse
		}
		return op.Activate()
	})
	if err != nil {
		return nil, err
	}

	logger.Enrich(ctx, s.logger).Info("Operator activated", zap.String("operator_id", op.ID.String()))
	dto := ToOperatorDTO(op)
	return &dto, nil
}

// GetOperator returns one operator of the branch
func (s *OperatorService) GetOperator(ctx context.Context, branchID, operatorID uuid.UUID) (*OperatorDTO, error) {
	op, err := s.findInBranch(ctx, s.operatorRepo, branchID, operatorID)
	if err != nil {
		return nil, err
	}
	dto := ToOperatorDTO(op)
	return &dto, nil
}

// ListOperators lists the operators of a branch
func (s *OperatorService) ListOperators(ctx context.Context, input ListOperatorsInput) (*OperatorListResult, error) {
	filter := identity.OperatorFilter{
		Filter: shared.Filter{
			Page:     input.Page,
			PageSize: input.PageSize,
			OrderBy:  "name",
			OrderDir: "asc",
		}.Normalize(),
		Status: input.Status,
		Role:   input.Role,
	}

	ops, total, err := s.operatorRepo.FindAllForBranch(ctx, input.BranchID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list operators: %w", err)
	}

	dtos := make([]OperatorDTO, len(ops))
	for i := range ops {
		dtos[i] = ToOperatorDTO(&ops[i])
	}
	page := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &OperatorListResult{
		Operators:  page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// modify loads the operator inside a transaction, applies change and saves it
// together with the events it raised. change must read through tx only.
func (s *OperatorService) modify(ctx context.Context, branchID, operatorID uuid.UUID, change func(tx OperatorTransaction, op *identity.Operator) error) (*identity.Operator, error) {
	var op *identity.Operator
	err := s.txScope.Execute(ctx, func(tx OperatorTransaction) error {
		var err error
		op, err = s.findInBranch(ctx, tx.OperatorRepo(), branchID, operatorID)
		if err != nil {
			return err
		}
		if err := change(tx, op); err != nil {
			return err
		}
		if err := tx.OperatorRepo().Save(ctx, op); err != nil {
			return err
		}
		return s.recordEvents(ctx, tx, op)
	})
	if err != nil {
		return nil, wrapWriteError("update operator", err)
	}
	return op, nil
}

func (s *OperatorService) findInBranch(ctx context.Context, repo identity.OperatorRepository, branchID, operatorID uuid.UUID) (*identity.Operator, error) {
	op, err := repo.FindByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errOperatorIDNotFound
		}
		return nil, fmt.Errorf("failed to load operator: %w", err)
	}
	if op.BranchID != branchID {
		return nil, errOperatorIDNotFound
	}
	return op, nil
}

func (s *OperatorService) recordEvents(ctx context.Context, tx OperatorTransaction, op *identity.Operator) error {
	events := op.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	if err := tx.Events().Record(ctx, events...); err != nil {
		return fmt.Errorf("failed to record operator events: %w", err)
	}
	op.ClearDomainEvents()
	return nil
}

// wrapWriteError passes domain errors through and wraps everything else
func wrapWriteError(action string, err error) error {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
