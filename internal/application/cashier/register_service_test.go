package cashier

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRegisterService(m *ledgerMocks) *RegisterService {
	return NewRegisterService(m.registers, m.shifts, m.scope, zap.NewNop())
}

func TestRegisterService_CreateRegister(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()

	t.Run("creates register", func(t *testing.T) {
		m := newLedgerMocks()
		m.registers.On("Create", mock.Anything, mock.AnythingOfType("*cashier.CashRegister")).Return(nil)

		dto, err := newRegisterService(m).CreateRegister(ctx, CreateRegisterInput{BranchID: branchID, Name: "Caja 2", DisplayOrder: 2})

		require.NoError(t, err)
		assert.Equal(t, "Caja 2", dto.Name)
		assert.True(t, dto.IsActive)
		assert.Equal(t, []string{cashier.EventTypeRegisterCreated}, m.events.eventTypes())
	})

	t.Run("duplicate name", func(t *testing.T) {
		m := newLedgerMocks()
		m.registers.On("Create", mock.Anything, mock.Anything).Return(cashier.ErrRegisterNameTaken)

		_, err := newRegisterService(m).CreateRegister(ctx, CreateRegisterInput{BranchID: branchID, Name: "Caja 1"})
		assert.True(t, errors.Is(err, cashier.ErrRegisterNameTaken))
	})
}

func TestRegisterService_DeactivateRegister(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()

	t.Run("refuses while a shift is open", func(t *testing.T) {
		m := newLedgerMocks()
		register, _ := cashier.NewCashRegister(branchID, "Caja 1", 1)
		shift := openShift(branchID, uuid.New(), "0")
		m.registers.On("FindByID", mock.Anything, register.ID).Return(register, nil)
		m.shifts.On("FindOpenByRegister", mock.Anything, register.ID).Return(shift, nil)

		_, err := newRegisterService(m).DeactivateRegister(ctx, branchID, register.ID)

		assert.True(t, errors.Is(err, cashier.ErrRegisterHasOpenShift))
		m.registers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("deactivates an idle register", func(t *testing.T) {
		m := newLedgerMocks()
		register, _ := cashier.NewCashRegister(branchID, "Caja 1", 1)
		register.ClearDomainEvents()
		m.registers.On("FindByID", mock.Anything, register.ID).Return(register, nil)
		m.registers.On("Save", mock.Anything, register).Return(nil)
		m.shifts.On("FindOpenByRegister", mock.Anything, register.ID).Return(nil, shared.ErrNotFound)

		dto, err := newRegisterService(m).DeactivateRegister(ctx, branchID, register.ID)

		require.NoError(t, err)
		assert.False(t, dto.IsActive)
		assert.Equal(t, []string{cashier.EventTypeRegisterStatusChanged}, m.events.eventTypes())
	})
}
