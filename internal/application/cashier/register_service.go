package cashier

import (
	"context"
	"errors"
	"fmt"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RegisterService manages the cash registers of a branch
type RegisterService struct {
	registerRepo cashier.CashRegisterRepository
	shiftRepo    cashier.ShiftRepository
	txScope      TransactionScope
	logger       *zap.Logger
}

// NewRegisterService creates a new register service
func NewRegisterService(
	registerRepo cashier.CashRegisterRepository,
	shiftRepo cashier.ShiftRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *RegisterService {
	return &RegisterService{
		registerRepo: registerRepo,
		shiftRepo:    shiftRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// CreateRegister adds a register to a branch
func (s *RegisterService) CreateRegister(ctx context.Context, input CreateRegisterInput) (*RegisterDTO, error) {
	register, err := cashier.NewCashRegister(input.BranchID, input.Name, input.DisplayOrder)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.RegisterRepo().Create(ctx, register); err != nil {
			return err
		}
		return recordEvents(ctx, repos, register)
	})
	if err != nil {
		return nil, wrapError("create register", err)
	}

	logger.Enrich(ctx, s.logger).Info("Cash register created",
		zap.String("register_id", register.ID.String()),
		zap.String("name", register.Name))
	dto := ToRegisterDTO(register)
	return &dto, nil
}

// GetRegister returns a register of the branch
func (s *RegisterService) GetRegister(ctx context.Context, branchID, registerID uuid.UUID) (*RegisterDTO, error) {
	register, err := loadRegister(ctx, s.registerRepo, branchID, registerID)
	if err != nil {
		return nil, err
	}
	dto := ToRegisterDTO(register)
	return &dto, nil
}

// ListRegisters lists the branch's registers in display order
func (s *RegisterService) ListRegisters(ctx context.Context, branchID uuid.UUID, activeOnly bool, page, pageSize int) (*shared.Paginated[RegisterDTO], error) {
	filter := cashier.RegisterFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: pageSize,
			OrderBy:  "display_order",
			OrderDir: "asc",
		}.Normalize(),
		ActiveOnly: activeOnly,
	}
	registers, total, err := s.registerRepo.FindAllForBranch(ctx, branchID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list registers: %w", err)
	}
	result := shared.NewPaginated(mapSlice(registers, ToRegisterDTO), total, filter.Page, filter.PageSize)
	return &result, nil
}

// ActivateRegister re-enables a register
func (s *RegisterService) ActivateRegister(ctx context.Context, branchID, registerID uuid.UUID) (*RegisterDTO, error) {
	return s.changeStatus(ctx, branchID, registerID, func(_ TransactionalRepositories, r *cashier.CashRegister) error {
		return r.Activate()
	})
}

// DeactivateRegister disables a register. A register with an open shift
// cannot be disabled.
func (s *RegisterService) DeactivateRegister(ctx context.Context, branchID, registerID uuid.UUID) (*RegisterDTO, error) {
	return s.changeStatus(ctx, branchID, registerID, func(repos TransactionalRepositories, r *cashier.CashRegister) error {
		_, err := repos.ShiftRepo().FindOpenByRegister(ctx, r.ID)
		switch {
		case err == nil:
			return cashier.ErrRegisterHasOpenShift
		case !errors.Is(err, shared.ErrNotFound):
			return fmt.Errorf("failed to check open shift: %w", err)
		}
		return r.Deactivate()
	})
}

func (s *RegisterService) changeStatus(
	ctx context.Context,
	branchID, registerID uuid.UUID,
	change func(repos TransactionalRepositories, r *cashier.CashRegister) error,
) (*RegisterDTO, error) {
	var register *cashier.CashRegister
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		register, err = loadRegister(ctx, repos.RegisterRepo(), branchID, registerID)
		if err != nil {
			return err
		}
		if err := change(repos, register); err != nil {
			return err
		}
		if err := repos.RegisterRepo().Save(ctx, register); err != nil {
			return err
		}
		return recordEvents(ctx, repos, register)
	})
	if err != nil {
		return nil, wrapError("update register", err)
	}

	logger.Enrich(ctx, s.logger).Info("Cash register status changed",
		zap.String("register_id", register.ID.String()),
		zap.Bool("is_active", register.IsActive))
	dto := ToRegisterDTO(register)
	return &dto, nil
}
