package cashier

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLedgerService(m *ledgerMocks) *LedgerService {
	return NewLedgerService(m.shifts, m.movements, m.scope, zap.NewNop())
}

func TestLedgerService_RecordMovement(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	recorder := uuid.New()

	input := func(shiftID, operatorID uuid.UUID) RecordMovementInput {
		return RecordMovementInput{
			BranchID:   branchID,
			ShiftID:    shiftID,
			Type:       cashier.MovementTypeIncome,
			Category:   cashier.CategorySale,
			Amount:     mustDecimal("5000"),
			Concept:    "Ventas mostrador",
			RecordedBy: recorder,
			OperatorID: operatorID,
		}
	}

	t.Run("records movement under the shift lock", func(t *testing.T) {
		m := newLedgerMocks()
		op := m.operator(branchID, identity.RoleCashier, "1111")
		shift := openShift(branchID, op.ID, "1000")
		m.shifts.On("FindByIDForUpdate", mock.Anything, shift.ID).Return(shift, nil)
		m.movements.On("Create", mock.Anything, mock.AnythingOfType("*cashier.CashRegisterMovement")).Return(nil)

		dto, err := newLedgerService(m).RecordMovement(ctx, input(shift.ID, op.ID))

		require.NoError(t, err)
		assert.Equal(t, "INCOME", dto.Type)
		assert.Equal(t, "SALE", dto.Category)
		assert.Equal(t, "CASH", dto.PaymentMethod)
		assert.Equal(t, recorder, dto.RecordedBy)
		assert.Equal(t, []string{cashier.EventTypeMovementRecorded}, m.events.eventTypes())
		m.shifts.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("closed shift rejects movements", func(t *testing.T) {
		m := newLedgerMocks()
		op := m.operator(branchID, identity.RoleCashier, "1111")
		shift := openShift(branchID, op.ID, "1000")
		shift.Status = cashier.ShiftStatusClosed
		m.shifts.On("FindByIDForUpdate", mock.Anything, shift.ID).Return(shift, nil)

		_, err := newLedgerService(m).RecordMovement(ctx, input(shift.ID, op.ID))

		assert.True(t, errors.Is(err, cashier.ErrShiftClosed))
		m.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("authorization required without authorizer", func(t *testing.T) {
		m := newLedgerMocks()
		in := input(uuid.New(), uuid.New())
		in.Type = cashier.MovementTypeExpense
		in.RequiresAuthorization = true

		_, err := newLedgerService(m).RecordMovement(ctx, in)

		assert.True(t, errors.Is(err, cashier.ErrAuthorizationRequired))
		m.shifts.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("cashier cannot authorize", func(t *testing.T) {
		m := newLedgerMocks()
		op := m.operator(branchID, identity.RoleCashier, "1111")
		shift := openShift(branchID, op.ID, "1000")
		m.shifts.On("FindByIDForUpdate", mock.Anything, shift.ID).Return(shift, nil)
		authorizer := op.Identity()

		in := input(shift.ID, op.ID)
		in.Type = cashier.MovementTypeExpense
		in.RequiresAuthorization = true
		in.Authorizer = &authorizer

		_, err := newLedgerService(m).RecordMovement(ctx, in)
		assert.True(t, errors.Is(err, cashier.ErrAuthorizerNotPermitted))
	})

	t.Run("supervisor authorizes expense", func(t *testing.T) {
		m := newLedgerMocks()
		op := m.operator(branchID, identity.RoleCashier, "1111")
		sup := m.operator(branchID, identity.RoleSupervisor, "2222")
		shift := openShift(branchID, op.ID, "1000")
		m.shifts.On("FindByIDForUpdate", mock.Anything, shift.ID).Return(shift, nil)
		m.movements.On("Create", mock.Anything, mock.Anything).Return(nil)
		authorizer := sup.Identity()

		in := input(shift.ID, op.ID)
		in.Type = cashier.MovementTypeExpense
		in.Category = cashier.CategoryRelief
		in.RequiresAuthorization = true
		in.Authorizer = &authorizer

		dto, err := newLedgerService(m).RecordMovement(ctx, in)

		require.NoError(t, err)
		require.NotNil(t, dto.AuthorizedBy)
		assert.Equal(t, sup.ID, *dto.AuthorizedBy)
		assert.True(t, dto.SignedAmount.Equal(mustDecimal("-5000")))
	})

	t.Run("invalid amounts", func(t *testing.T) {
		m := newLedgerMocks()
		for _, amount := range []string{"0", "-10", "1.234"} {
			in := input(uuid.New(), uuid.New())
			in.Amount = mustDecimal(amount)
			_, err := newLedgerService(m).RecordMovement(ctx, in)
			assert.True(t, errors.Is(err, shared.ErrInvalidAmount), amount)
		}
	})

	t.Run("invalid type", func(t *testing.T) {
		m := newLedgerMocks()
		in := input(uuid.New(), uuid.New())
		in.Type = cashier.MovementType("REFUND")
		_, err := newLedgerService(m).RecordMovement(ctx, in)
		assert.True(t, errors.Is(err, cashier.ErrInvalidMovementType))
	})
}

func TestLedgerService_DeleteMovementByAdvance(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	operatorID := uuid.New()
	advanceID := uuid.New()

	t.Run("deletes once and records event", func(t *testing.T) {
		m := newLedgerMocks()
		shift := openShift(branchID, operatorID, "0")
		mv := movement(t, shift, cashier.MovementTypeExpense, "300", operatorID)
		mv.SalaryAdvanceID = &advanceID
		m.movements.On("FindByAdvance", mock.Anything, advanceID).Return(&mv, nil).Once()
		m.movements.On("DeleteByAdvance", mock.Anything, advanceID).Return(int64(1), nil).Once()
		m.movements.On("FindByAdvance", mock.Anything, advanceID).Return(nil, shared.ErrNotFound)

		svc := newLedgerService(m)
		deleted, err := svc.DeleteMovementByAdvance(ctx, advanceID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		deleted, err = svc.DeleteMovementByAdvance(ctx, advanceID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)

		assert.Equal(t, []string{cashier.EventTypeMovementDeleted}, m.events.eventTypes())
	})
}

func TestLedgerService_ComputeBalance(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	operatorID := uuid.New()
	m := newLedgerMocks()
	shift := openShift(branchID, operatorID, "1000")
	relief := movement(t, shift, cashier.MovementTypeExpense, "200", operatorID)
	relief.Category = cashier.CategoryRelief
	relief.Concept = "alivio"
	m.shifts.On("FindByID", mock.Anything, shift.ID).Return(shift, nil)
	m.movements.On("FindByShift", mock.Anything, shift.ID).Return([]cashier.CashRegisterMovement{
		movement(t, shift, cashier.MovementTypeIncome, "500", operatorID),
		relief,
	}, nil)

	balance, err := newLedgerService(m).ComputeBalance(ctx, branchID, shift.ID)

	require.NoError(t, err)
	assert.True(t, balance.Expected.Equal(mustDecimal("1300")))
	assert.True(t, balance.TotalExpense.Equal(mustDecimal("200")))
}
