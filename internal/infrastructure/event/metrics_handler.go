package event

import (
	"context"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/telemetry"
)

// MetricsHandler turns delivered ledger events into business metrics
type MetricsHandler struct {
	metrics *telemetry.LedgerMetrics
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(metrics *telemetry.LedgerMetrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// EventTypes lists the events that carry metrics
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		cashier.EventTypeShiftOpened,
		cashier.EventTypeShiftClosed,
		cashier.EventTypeMovementRecorded,
		cashier.EventTypeMovementDeleted,
		payroll.EventTypeAdvanceCreated,
		payroll.EventTypeAdvanceTransferred,
		payroll.EventTypeAdvanceCancelled,
		payroll.EventTypeAdvanceDeducted,
	}
}

// Handle records the metric for evt. Unknown events are ignored.
func (h *MetricsHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	branchID := evt.BranchID()

	switch e := evt.(type) {
	case *cashier.ShiftOpenedEvent:
		h.metrics.RecordShiftOpened(ctx, branchID)
	case *cashier.ShiftClosedEvent:
		h.metrics.RecordShiftClosed(ctx, branchID, e.Discrepancy)
	case *cashier.MovementRecordedEvent:
		h.metrics.RecordMovement(ctx, branchID, string(e.Type), string(e.Category), e.Amount)
	case *cashier.MovementDeletedEvent:
		h.metrics.RecordMovementDeleted(ctx, branchID)
	case *payroll.AdvanceCreatedEvent:
		h.metrics.RecordAdvanceTransition(ctx, branchID, string(e.Status))
	case *payroll.AdvanceTransferredEvent:
		h.metrics.RecordAdvanceTransition(ctx, branchID, string(payroll.AdvanceStatusTransferred))
	case *payroll.AdvanceCancelledEvent:
		h.metrics.RecordAdvanceTransition(ctx, branchID, string(payroll.AdvanceStatusCancelled))
	case *payroll.AdvanceDeductedEvent:
		h.metrics.RecordAdvanceTransition(ctx, branchID, string(payroll.AdvanceStatusDeducted))
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
