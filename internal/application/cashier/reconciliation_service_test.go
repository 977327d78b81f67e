package cashier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReconciliationService_Reconcile(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	operatorID := uuid.New()
	m := newLedgerMocks()
	shift := openShift(branchID, operatorID, "1000")
	m.shifts.On("FindByID", mock.Anything, shift.ID).Return(shift, nil)
	m.movements.On("FindByShift", mock.Anything, shift.ID).Return([]cashier.CashRegisterMovement{
		movement(t, shift, cashier.MovementTypeIncome, "5000", operatorID),
		movement(t, shift, cashier.MovementTypeExpense, "800", operatorID),
	}, nil)

	svc := NewReconciliationService(m.shifts, m.movements, m.discrepancies)
	preview, err := svc.Reconcile(ctx, branchID, shift.ID, mustDecimal("5250"))

	require.NoError(t, err)
	assert.True(t, preview.Expected.Equal(mustDecimal("5200")))
	assert.True(t, preview.Discrepancy.Equal(mustDecimal("50")))
	assert.Equal(t, OutcomeOverage, preview.Outcome)
	assert.True(t, shift.IsOpen(), "preview does not close the shift")
	m.shifts.AssertNotCalled(t, "SaveClosed", mock.Anything, mock.Anything)

	_, err = svc.Reconcile(ctx, uuid.New(), shift.ID, decimal.Zero)
	assert.True(t, errors.Is(err, cashier.ErrShiftNotFound))
}

func TestReconciliationService_GetOperatorAccuracy(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()
	operatorID := uuid.New()
	from := time.Now().AddDate(0, -1, 0)

	record := func(branch uuid.UUID, discrepancy string) cashier.DiscrepancyRecord {
		return cashier.DiscrepancyRecord{
			ID:          uuid.New(),
			BranchID:    branch,
			OperatorID:  operatorID,
			Discrepancy: mustDecimal(discrepancy),
		}
	}
	m := newLedgerMocks()
	m.discrepancies.On("FindByOperator", mock.Anything, operatorID, &from, (*time.Time)(nil)).Return([]cashier.DiscrepancyRecord{
		record(branchID, "0"),
		record(branchID, "-50"),
		record(branchID, "20"),
		record(branchID, "0"),
		record(uuid.New(), "-1000"),
	}, nil)

	svc := NewReconciliationService(m.shifts, m.movements, m.discrepancies)
	stats, err := svc.GetOperatorAccuracy(ctx, branchID, operatorID, &from, nil)

	require.NoError(t, err)
	assert.Equal(t, 4, stats.ShiftsClosed)
	assert.Equal(t, 2, stats.ExactShifts)
	assert.True(t, stats.ExactPercentage.Equal(mustDecimal("50")))
	assert.True(t, stats.TotalShortage.Equal(mustDecimal("50")))
	assert.True(t, stats.TotalOverage.Equal(mustDecimal("20")))
	assert.True(t, stats.MeanAbsDiscrepancy.Equal(mustDecimal("17.5")))
}

func TestReconciliationService_ListDiscrepancies(t *testing.T) {
	branchID := uuid.New()
	m := newLedgerMocks()
	m.discrepancies.On("FindAll", mock.Anything, mock.MatchedBy(func(f cashier.DiscrepancyFilter) bool {
		return f.BranchID == branchID && f.Page == 2 && f.PageSize == 10 && f.OrderBy == "closed_at"
	})).Return([]cashier.DiscrepancyRecord{{ID: uuid.New(), BranchID: branchID}}, int64(11), nil)

	svc := NewReconciliationService(m.shifts, m.movements, m.discrepancies)
	page, err := svc.ListDiscrepancies(context.Background(), ListDiscrepanciesInput{
		BranchID: branchID,
		Page:     2,
		PageSize: 10,
	})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)

	m.discrepancies.On("FindAll", mock.Anything, mock.Anything).Return([]cashier.DiscrepancyRecord{}, int64(0), shared.ErrInvalidInput)
	_, err = svc.ListDiscrepancies(context.Background(), ListDiscrepanciesInput{BranchID: uuid.New()})
	assert.Error(t, err)
}
