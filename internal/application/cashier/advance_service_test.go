package cashier

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/identity"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAdvanceService(m *ledgerMocks) *AdvanceService {
	return NewAdvanceService(m.advances, m.scope, zap.NewNop())
}

type advanceFixture struct {
	branchID   uuid.UUID
	cashier    *identity.Operator
	supervisor *identity.Operator
	shift      *cashier.CashRegisterShift
}

func newAdvanceFixture(m *ledgerMocks) advanceFixture {
	branchID := uuid.New()
	op := m.operator(branchID, identity.RoleCashier, "1111")
	sup := m.operator(branchID, identity.RoleSupervisor, "2222")
	return advanceFixture{
		branchID:   branchID,
		cashier:    op,
		supervisor: sup,
		shift:      openShift(branchID, op.ID, "1000"),
	}
}

func (f advanceFixture) cashInput(amount string) CreateAdvanceInput {
	shiftID := f.shift.ID
	return CreateAdvanceInput{
		BranchID:      f.branchID,
		EmployeeID:    uuid.New(),
		Amount:        mustDecimal(amount),
		Reason:        "Adelanto quincena",
		PaymentMethod: payroll.AdvancePaymentCash,
		Authorizer:    f.supervisor.Identity(),
		ShiftID:       &shiftID,
		PaidBy:        f.cashier.ID,
		CreatedBy:     f.cashier.ID,
	}
}

// paidCashAdvance runs CreateAdvance for a cash advance and returns the
// stored advance and its movement
func paidCashAdvance(t *testing.T, m *ledgerMocks, f advanceFixture) (*payroll.SalaryAdvance, *cashier.CashRegisterMovement) {
	t.Helper()
	m.shifts.On("FindByIDForUpdate", mock.Anything, f.shift.ID).Return(f.shift, nil)
	m.advances.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	m.movements.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := newAdvanceService(m).CreateAdvance(context.Background(), f.cashInput("300"))
	require.NoError(t, err)

	advance := m.advances.Calls[len(m.advances.Calls)-1].Arguments.Get(1).(*payroll.SalaryAdvance)
	movement := m.movements.Calls[len(m.movements.Calls)-1].Arguments.Get(1).(*cashier.CashRegisterMovement)
	return advance, movement
}

func TestAdvanceService_CreateCashAdvance(t *testing.T) {
	m := newLedgerMocks()
	f := newAdvanceFixture(m)

	advance, mv := paidCashAdvance(t, m, f)

	assert.Equal(t, payroll.AdvanceStatusPaid, advance.Status)
	assert.Equal(t, f.shift.ID, *advance.ShiftID)
	assert.Equal(t, cashier.MovementTypeExpense, mv.Type)
	assert.Equal(t, cashier.CategorySalaryAdvance, mv.Category)
	assert.True(t, mv.Amount.Equal(mustDecimal("300")))
	assert.True(t, mv.RequiresAuthorization)
	require.NotNil(t, mv.AuthorizedBy)
	assert.Equal(t, f.supervisor.ID, *mv.AuthorizedBy)
	assert.Equal(t, advance.ID, *mv.SalaryAdvanceID)
	assert.ElementsMatch(t,
		[]string{payroll.EventTypeAdvanceCreated, cashier.EventTypeMovementRecorded},
		m.events.eventTypes())
}

func TestAdvanceService_CreateCashAdvance_PayerDefaultsToShiftOpener(t *testing.T) {
	m := newLedgerMocks()
	f := newAdvanceFixture(m)
	m.shifts.On("FindByIDForUpdate", mock.Anything, f.shift.ID).Return(f.shift, nil)
	m.advances.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	m.movements.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	in := f.cashInput("300")
	in.PaidBy = uuid.Nil

	dto, err := newAdvanceService(m).CreateAdvance(context.Background(), in)

	require.NoError(t, err)
	require.NotNil(t, dto.PaidBy)
	assert.Equal(t, f.shift.OpenedBy, *dto.PaidBy)
	mv := m.movements.Calls[len(m.movements.Calls)-1].Arguments.Get(1).(*cashier.CashRegisterMovement)
	assert.Equal(t, f.shift.OpenedBy, mv.RecordedBy)
}

func TestAdvanceService_CreateAdvance_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("cash advance without shift", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		in := f.cashInput("300")
		in.ShiftID = nil

		_, err := newAdvanceService(m).CreateAdvance(ctx, in)
		assert.True(t, errors.Is(err, payroll.ErrShiftRequired))
	})

	t.Run("closed shift", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		f.shift.Status = cashier.ShiftStatusClosed
		m.shifts.On("FindByIDForUpdate", mock.Anything, f.shift.ID).Return(f.shift, nil)

		_, err := newAdvanceService(m).CreateAdvance(ctx, f.cashInput("300"))

		assert.True(t, errors.Is(err, payroll.ErrShiftNotOpen))
		m.advances.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("shift of another branch", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		foreign := openShift(uuid.New(), f.cashier.ID, "0")
		m.shifts.On("FindByIDForUpdate", mock.Anything, foreign.ID).Return(foreign, nil)
		in := f.cashInput("300")
		in.ShiftID = &foreign.ID

		_, err := newAdvanceService(m).CreateAdvance(ctx, in)
		assert.True(t, errors.Is(err, cashier.ErrShiftBranchMismatch))
	})

	t.Run("missing authorizer", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		in := f.cashInput("300")
		in.Authorizer = identity.OperatorIdentity{}

		_, err := newAdvanceService(m).CreateAdvance(ctx, in)
		assert.True(t, errors.Is(err, cashier.ErrAuthorizationRequired))
	})

	t.Run("cashier cannot authorize", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		in := f.cashInput("300")
		in.Authorizer = f.cashier.Identity()

		_, err := newAdvanceService(m).CreateAdvance(ctx, in)
		assert.True(t, errors.Is(err, cashier.ErrAuthorizerNotPermitted))
	})

	t.Run("movement insert failure leaves nothing recorded", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		m.shifts.On("FindByIDForUpdate", mock.Anything, f.shift.ID).Return(f.shift, nil)
		m.advances.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.movements.On("Create", mock.Anything, mock.Anything).Return(shared.ErrConflict)

		_, err := newAdvanceService(m).CreateAdvance(ctx, f.cashInput("300"))

		assert.True(t, errors.Is(err, shared.ErrConflict))
		assert.Empty(t, m.events.eventTypes())
	})
}

func TestAdvanceService_TransferLifecycle(t *testing.T) {
	ctx := context.Background()
	m := newLedgerMocks()
	f := newAdvanceFixture(m)
	m.advances.On("Create", mock.Anything, mock.Anything).Return(nil)

	in := f.cashInput("2000")
	in.PaymentMethod = payroll.AdvancePaymentTransfer
	in.ShiftID = nil

	svc := newAdvanceService(m)
	dto, err := svc.CreateAdvance(ctx, in)

	require.NoError(t, err)
	assert.Equal(t, "PENDING_TRANSFER", dto.Status)
	m.movements.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.shifts.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)

	advance := m.advances.Calls[0].Arguments.Get(1).(*payroll.SalaryAdvance)
	m.advances.On("FindByIDForUpdate", mock.Anything, advance.ID).Return(advance, nil)
	m.advances.On("Save", mock.Anything, advance).Return(nil)

	dto, err = svc.MarkTransferred(ctx, f.branchID, advance.ID, f.supervisor.ID, "TRX123")
	require.NoError(t, err)
	assert.Equal(t, "TRANSFERRED", dto.Status)
	assert.Equal(t, "TRX123", dto.TransferReference)

	_, err = svc.MarkTransferred(ctx, f.branchID, advance.ID, f.supervisor.ID, "TRX124")
	assert.True(t, errors.Is(err, payroll.ErrInvalidTransition))

	_, err = svc.CancelAdvance(ctx, f.branchID, advance.ID, f.supervisor.ID)
	assert.True(t, errors.Is(err, payroll.ErrAlreadyTerminal))

	dto, err = svc.MarkDeducted(ctx, f.branchID, advance.ID, "NOM-2024-05")
	require.NoError(t, err)
	assert.Equal(t, "DEDUCTED", dto.Status)
}

func TestAdvanceService_CancelCashAdvance(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes the movement while the shift is open", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		advance, mv := paidCashAdvance(t, m, f)
		m.advances.On("FindByIDForUpdate", mock.Anything, advance.ID).Return(advance, nil)
		m.advances.On("Save", mock.Anything, advance).Return(nil)
		m.movements.On("FindByAdvance", mock.Anything, advance.ID).Return(mv, nil)
		m.movements.On("DeleteByAdvance", mock.Anything, advance.ID).Return(int64(1), nil)

		dto, err := newAdvanceService(m).CancelAdvance(ctx, f.branchID, advance.ID, f.supervisor.ID)

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", dto.Status)
		m.movements.AssertCalled(t, "DeleteByAdvance", mock.Anything, advance.ID)
		assert.Contains(t, m.events.eventTypes(), cashier.EventTypeMovementDeleted)
		assert.Contains(t, m.events.eventTypes(), payroll.EventTypeAdvanceCancelled)
	})

	t.Run("closed shift blocks cancellation", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		advance, _ := paidCashAdvance(t, m, f)
		f.shift.Status = cashier.ShiftStatusClosed
		m.advances.On("FindByIDForUpdate", mock.Anything, advance.ID).Return(advance, nil)

		_, err := newAdvanceService(m).CancelAdvance(ctx, f.branchID, advance.ID, f.supervisor.ID)

		assert.True(t, errors.Is(err, cashier.ErrShiftClosed))
		m.movements.AssertNotCalled(t, "DeleteByAdvance", mock.Anything, mock.Anything)
		m.advances.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("cancelling twice returns the cancelled advance", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		advance, _ := paidCashAdvance(t, m, f)
		require.NoError(t, advance.Cancel(f.supervisor.ID))
		version := advance.Version
		m.advances.On("FindByIDForUpdate", mock.Anything, advance.ID).Return(advance, nil)

		dto, err := newAdvanceService(m).CancelAdvance(ctx, f.branchID, advance.ID, f.supervisor.ID)

		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", dto.Status)
		assert.Equal(t, version, dto.Version)
		m.advances.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("advance of another branch", func(t *testing.T) {
		m := newLedgerMocks()
		f := newAdvanceFixture(m)
		advance, _ := paidCashAdvance(t, m, f)
		m.advances.On("FindByIDForUpdate", mock.Anything, advance.ID).Return(advance, nil)

		_, err := newAdvanceService(m).CancelAdvance(ctx, uuid.New(), advance.ID, f.supervisor.ID)
		assert.True(t, errors.Is(err, payroll.ErrAdvanceNotFound))
	})
}
