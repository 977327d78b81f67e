package event

import (
	"context"
	"testing"

	"github.com/erp/cashledger/internal/domain/cashier"
	"github.com/erp/cashledger/internal/domain/payroll"
	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/erp/cashledger/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func counterTotals(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	return totals
}

func TestMetricsHandler_Handle(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	metrics, err := telemetry.NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)
	handler := NewMetricsHandler(metrics)

	branch := uuid.New()
	base := func(eventType, aggType string) shared.BaseDomainEvent {
		return shared.NewBaseDomainEvent(eventType, aggType, uuid.New(), branch)
	}
	events := []shared.DomainEvent{
		&cashier.ShiftOpenedEvent{BaseDomainEvent: base(cashier.EventTypeShiftOpened, cashier.AggregateTypeShift)},
		newShiftClosedEvent(),
		&cashier.MovementRecordedEvent{
			BaseDomainEvent: base(cashier.EventTypeMovementRecorded, cashier.AggregateTypeMovement),
			Type:            cashier.MovementTypeIncome,
			Category:        cashier.CategorySale,
			Amount:          decimal.NewFromInt(500),
		},
		&cashier.MovementDeletedEvent{BaseDomainEvent: base(cashier.EventTypeMovementDeleted, cashier.AggregateTypeMovement)},
		&payroll.AdvanceCreatedEvent{
			BaseDomainEvent: base(payroll.EventTypeAdvanceCreated, payroll.AggregateTypeSalaryAdvance),
			Status:          payroll.AdvanceStatusPaid,
		},
		&payroll.AdvanceCancelledEvent{BaseDomainEvent: base(payroll.EventTypeAdvanceCancelled, payroll.AggregateTypeSalaryAdvance)},
		newTestEvent("Unrelated", branch),
	}
	for _, evt := range events {
		require.NoError(t, handler.Handle(context.Background(), evt))
	}

	totals := counterTotals(t, reader)
	assert.Equal(t, int64(1), totals["ledger_shifts_opened_total"])
	assert.Equal(t, int64(1), totals["ledger_shifts_closed_total"])
	assert.Equal(t, int64(1), totals["ledger_movements_recorded_total"])
	assert.Equal(t, int64(1), totals["ledger_movements_deleted_total"])
	assert.Equal(t, int64(2), totals["ledger_advance_transitions_total"])
}

func TestMetricsHandler_EventTypes(t *testing.T) {
	handler := NewMetricsHandler(nil)

	assert.Contains(t, handler.EventTypes(), cashier.EventTypeShiftClosed)
	assert.NotContains(t, handler.EventTypes(), cashier.EventTypeRegisterCreated)
}
