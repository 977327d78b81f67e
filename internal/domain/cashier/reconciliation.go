package cashier

import (
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is the expected cash of a shift derived from its movements
type Balance struct {
	Opening       decimal.Decimal `json:"opening"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpense  decimal.Decimal `json:"total_expense"`
	Expected      decimal.Decimal `json:"expected"`
	MovementCount int             `json:"movement_count"`
}

// ComputeBalance returns opening + Σincome − Σexpense over movements.
// Every movement counts by type alone; categories are ignored.
func ComputeBalance(opening decimal.Decimal, movements []CashRegisterMovement) Balance {
	income := decimal.Zero
	expense := decimal.Zero
	for i := range movements {
		switch movements[i].Type {
		case MovementTypeIncome:
			income = income.Add(movements[i].Amount)
		case MovementTypeExpense:
			expense = expense.Add(movements[i].Amount)
		}
	}
	return Balance{
		Opening:       opening,
		TotalIncome:   income,
		TotalExpense:  expense,
		Expected:      opening.Add(income).Sub(expense),
		MovementCount: len(movements),
	}
}

// ReconciliationResult compares the expected and the counted cash of a shift
type ReconciliationResult struct {
	ShiftID uuid.UUID `json:"shift_id"`
	Balance
	Counted     decimal.Decimal `json:"counted"`
	Discrepancy decimal.Decimal `json:"discrepancy"`
}

// Reconcile derives the expected balance of shift from movements and compares
// it with the counted cash. discrepancy = counted − expected, so a shortage
// is negative.
func Reconcile(shift *CashRegisterShift, movements []CashRegisterMovement, counted decimal.Decimal) (ReconciliationResult, error) {
	if err := shared.ValidateNonNegativeAmount(counted); err != nil {
		return ReconciliationResult{}, err
	}
	for i := range movements {
		if movements[i].ShiftID != shift.ID {
			return ReconciliationResult{}, shared.NewDomainError("INVALID_RECONCILIATION", "Movement does not belong to the shift being reconciled")
		}
	}

	balance := ComputeBalance(shift.OpeningAmount, movements)
	return ReconciliationResult{
		ShiftID:     shift.ID,
		Balance:     balance,
		Counted:     counted,
		Discrepancy: counted.Sub(balance.Expected),
	}, nil
}

// IsExact is true when the counted cash matches the expected cash
func (r ReconciliationResult) IsExact() bool {
	return r.Discrepancy.IsZero()
}

// IsShortage is true when cash is missing from the register
func (r ReconciliationResult) IsShortage() bool {
	return r.Discrepancy.IsNegative()
}

// IsOverage is true when there is more cash than expected
func (r ReconciliationResult) IsOverage() bool {
	return r.Discrepancy.IsPositive()
}
