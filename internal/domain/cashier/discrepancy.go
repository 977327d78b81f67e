package cashier

import (
	"time"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DiscrepancyRecord is the read-only history entry written when a shift
// closes. It feeds per-operator accuracy statistics.
type DiscrepancyRecord struct {
	ID          uuid.UUID
	ShiftID     uuid.UUID
	RegisterID  uuid.UUID
	BranchID    uuid.UUID
	OperatorID  uuid.UUID
	Expected    decimal.Decimal
	Counted     decimal.Decimal
	Discrepancy decimal.Decimal
	ShiftDate   time.Time
	ClosedAt    time.Time
	CreatedAt   time.Time
}

// NewDiscrepancyRecord projects a closed shift into a history record.
// The record is attributed to the operator who closed the shift.
func NewDiscrepancyRecord(shift *CashRegisterShift) (*DiscrepancyRecord, error) {
	if shift.Status != ShiftStatusClosed || shift.ClosedBy == nil || shift.ClosedAt == nil ||
		shift.ExpectedAmount == nil || shift.CountedAmount == nil || shift.Discrepancy == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "Only closed shifts have a discrepancy record")
	}
	return &DiscrepancyRecord{
		ID:          uuid.New(),
		ShiftID:     shift.ID,
		RegisterID:  shift.RegisterID,
		BranchID:    shift.BranchID,
		OperatorID:  *shift.ClosedBy,
		Expected:    *shift.ExpectedAmount,
		Counted:     *shift.CountedAmount,
		Discrepancy: *shift.Discrepancy,
		ShiftDate:   shift.ShiftDate(),
		ClosedAt:    *shift.ClosedAt,
		CreatedAt:   time.Now(),
	}, nil
}

// AccuracyStats summarises how precisely an operator closes shifts
type AccuracyStats struct {
	OperatorID         uuid.UUID       `json:"operator_id"`
	ShiftsClosed       int             `json:"shifts_closed"`
	ExactShifts        int             `json:"exact_shifts"`
	ShortageShifts     int             `json:"shortage_shifts"`
	OverageShifts      int             `json:"overage_shifts"`
	ExactPercentage    decimal.Decimal `json:"exact_percentage"`
	TotalShortage      decimal.Decimal `json:"total_shortage"`
	TotalOverage       decimal.Decimal `json:"total_overage"`
	NetDiscrepancy     decimal.Decimal `json:"net_discrepancy"`
	MeanAbsDiscrepancy decimal.Decimal `json:"mean_abs_discrepancy"`
}

// ComputeAccuracy folds records into AccuracyStats. Shortages are reported
// as a positive total. Percentages and means are rounded to 2 places.
func ComputeAccuracy(operatorID uuid.UUID, records []DiscrepancyRecord) AccuracyStats {
	stats := AccuracyStats{
		OperatorID:         operatorID,
		ExactPercentage:    decimal.Zero,
		TotalShortage:      decimal.Zero,
		TotalOverage:       decimal.Zero,
		NetDiscrepancy:     decimal.Zero,
		MeanAbsDiscrepancy: decimal.Zero,
	}
	absSum := decimal.Zero
	for i := range records {
		d := records[i].Discrepancy
		stats.ShiftsClosed++
		stats.NetDiscrepancy = stats.NetDiscrepancy.Add(d)
		absSum = absSum.Add(d.Abs())
		switch {
		case d.IsZero():
			stats.ExactShifts++
		case d.IsNegative():
			stats.ShortageShifts++
			stats.TotalShortage = stats.TotalShortage.Add(d.Abs())
		default:
			stats.OverageShifts++
			stats.TotalOverage = stats.TotalOverage.Add(d)
		}
	}
	if stats.ShiftsClosed > 0 {
		n := decimal.NewFromInt(int64(stats.ShiftsClosed))
		stats.ExactPercentage = decimal.NewFromInt(int64(stats.ExactShifts)).
			Mul(decimal.NewFromInt(100)).
			Div(n).
			Round(2)
		stats.MeanAbsDiscrepancy = absSum.Div(n).Round(2)
	}
	return stats
}
