package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys
const (
	AttrBranchID      = attribute.Key("branch_id")
	AttrMovementType  = attribute.Key("movement_type")
	AttrCategory      = attribute.Key("category")
	AttrAdvanceStatus = attribute.Key("advance_status")
	AttrOutcome       = attribute.Key("outcome")
)

// Close outcomes recorded on the shifts_closed counter
const (
	OutcomeExact    = "exact"
	OutcomeShortage = "shortage"
	OutcomeOverage  = "overage"
)

// LedgerMetrics holds the ledger business instruments.
type LedgerMetrics struct {
	shiftsOpened       *Counter
	shiftsClosed       *Counter
	movementsRecorded  *Counter
	movementsDeleted   *Counter
	movementAmount     *Histogram
	discrepancyAbs     *Histogram
	advanceTransitions *Counter
}

// NewLedgerMetrics creates the ledger instruments on meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	m := &LedgerMetrics{}
	var err error

	if m.shiftsOpened, err = NewCounter(meter, "ledger_shifts_opened_total", "Shifts opened", "{shift}"); err != nil {
		return nil, err
	}
	if m.shiftsClosed, err = NewCounter(meter, "ledger_shifts_closed_total", "Shifts closed by reconciliation outcome", "{shift}"); err != nil {
		return nil, err
	}
	if m.movementsRecorded, err = NewCounter(meter, "ledger_movements_recorded_total", "Movements recorded", "{movement}"); err != nil {
		return nil, err
	}
	if m.movementsDeleted, err = NewCounter(meter, "ledger_movements_deleted_total", "Movements removed by advance cancellation", "{movement}"); err != nil {
		return nil, err
	}
	if m.advanceTransitions, err = NewCounter(meter, "ledger_advance_transitions_total", "Salary advance status transitions", "{transition}"); err != nil {
		return nil, err
	}
	if m.movementAmount, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_movement_amount",
		Description: "Movement amounts",
		Unit:        "{currency}",
		Buckets:     []float64{10, 50, 100, 500, 1000, 5000, 10000, 50000},
	}); err != nil {
		return nil, err
	}
	if m.discrepancyAbs, err = NewHistogram(meter, HistogramOpts{
		Name:        "ledger_close_discrepancy_abs",
		Description: "Absolute discrepancy between counted and expected cash at close",
		Unit:        "{currency}",
		Buckets:     []float64{0, 1, 5, 10, 50, 100, 500, 1000},
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordShiftOpened counts an opened shift
func (m *LedgerMetrics) RecordShiftOpened(ctx context.Context, branchID uuid.UUID) {
	m.shiftsOpened.Inc(ctx, AttrBranchID.String(branchID.String()))
}

// RecordShiftClosed counts a close and records the size of its discrepancy
func (m *LedgerMetrics) RecordShiftClosed(ctx context.Context, branchID uuid.UUID, discrepancy decimal.Decimal) {
	outcome := OutcomeExact
	switch {
	case discrepancy.IsNegative():
		outcome = OutcomeShortage
	case discrepancy.IsPositive():
		outcome = OutcomeOverage
	}
	branch := AttrBranchID.String(branchID.String())
	m.shiftsClosed.Inc(ctx, branch, AttrOutcome.String(outcome))
	m.discrepancyAbs.Record(ctx, discrepancy.Abs().InexactFloat64(), branch)
}

// RecordMovement counts a movement and records its amount
func (m *LedgerMetrics) RecordMovement(ctx context.Context, branchID uuid.UUID, movementType, category string, amount decimal.Decimal) {
	attrs := []attribute.KeyValue{
		AttrBranchID.String(branchID.String()),
		AttrMovementType.String(movementType),
		AttrCategory.String(category),
	}
	m.movementsRecorded.Inc(ctx, attrs...)
	m.movementAmount.Record(ctx, amount.InexactFloat64(), attrs...)
}

// RecordMovementDeleted counts a removed advance movement
func (m *LedgerMetrics) RecordMovementDeleted(ctx context.Context, branchID uuid.UUID) {
	m.movementsDeleted.Inc(ctx, AttrBranchID.String(branchID.String()))
}

// RecordAdvanceTransition counts an advance reaching status
func (m *LedgerMetrics) RecordAdvanceTransition(ctx context.Context, branchID uuid.UUID, status string) {
	m.advanceTransitions.Inc(ctx, AttrBranchID.String(branchID.String()), AttrAdvanceStatus.String(status))
}
