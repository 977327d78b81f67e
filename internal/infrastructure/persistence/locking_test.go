package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SQL shape of the row locks and conditional updates on the postgres dialect

func TestShiftRepository_FindByIDForUpdate_LocksRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormShiftRepository(db)
	shiftID, branchID, registerID := uuid.New(), uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{"id", "branch_id", "register_id", "status", "opening_amount", "version"}).
		AddRow(shiftID.String(), branchID.String(), registerID.String(), "OPEN", "100.00", 1)
	mock.ExpectQuery(`SELECT \* FROM "cash_register_shifts" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(rows)

	shift, err := repo.FindByIDForUpdate(context.Background(), shiftID)

	require.NoError(t, err)
	assert.Equal(t, shiftID, shift.ID)
	assert.Equal(t, registerID, shift.RegisterID)
	assert.True(t, shift.IsOpen())
	assert.True(t, dec("100").Equal(shift.OpeningAmount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRepository_SaveClosed_ConditionalOnOpen(t *testing.T) {
	closed := func() *cashier.CashRegisterShift {
		closedBy := uuid.New()
		expected, counted, discrepancy := dec("100"), dec("95"), dec("-5")
		s := &cashier.CashRegisterShift{
			Status:         cashier.ShiftStatusClosed,
			ClosedBy:       &closedBy,
			ExpectedAmount: &expected,
			CountedAmount:  &counted,
			Discrepancy:    &discrepancy,
		}
		s.ID = uuid.New()
		s.Version = 2
		return s
	}

	t.Run("open row is closed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "cash_register_shifts" SET .* WHERE .*id = \$\d+ AND status = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewGormShiftRepository(db).SaveClosed(context.Background(), closed()))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already closed row is untouched", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "cash_register_shifts" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormShiftRepository(db).SaveClosed(context.Background(), closed())
		assert.ErrorIs(t, err, cashier.ErrShiftAlreadyClosed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestOptimisticLocking_StaleVersion(t *testing.T) {
	t.Run("register", func(t *testing.T) {
		db, mock := newMockDB(t)
		r := &cashier.CashRegister{IsActive: false}
		r.ID = uuid.New()
		r.Version = 3

		mock.ExpectExec(`UPDATE "cash_registers" SET .* WHERE .*version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormCashRegisterRepository(db).Save(context.Background(), r)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("salary advance", func(t *testing.T) {
		db, mock := newMockDB(t)
		a := &payroll.SalaryAdvance{Status: payroll.AdvanceStatusCancelled}
		a.ID = uuid.New()
		a.Version = 2

		mock.ExpectExec(`UPDATE "salary_advances" SET .* WHERE .*version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := NewGormSalaryAdvanceRepository(db).Save(context.Background(), a)
		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("salary advance current version", func(t *testing.T) {
		db, mock := newMockDB(t)
		a := &payroll.SalaryAdvance{Status: payroll.AdvanceStatusCancelled}
		a.ID = uuid.New()
		a.Version = 2

		mock.ExpectExec(`UPDATE "salary_advances" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, NewGormSalaryAdvanceRepository(db).Save(context.Background(), a))
	})
}
