package telemetry

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestLedgerMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := NewLedgerMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	branch := uuid.New()
	m.RecordShiftOpened(ctx, branch)
	m.RecordShiftOpened(ctx, branch)
	m.RecordShiftClosed(ctx, branch, decimal.RequireFromString("-50.00"))
	m.RecordShiftClosed(ctx, branch, decimal.Zero)
	m.RecordMovement(ctx, branch, "INCOME", "SALE", decimal.NewFromInt(500))
	m.RecordMovementDeleted(ctx, branch)
	m.RecordAdvanceTransition(ctx, branch, "PAID")

	metrics := collect(t, reader)
	assert.Equal(t, int64(2), sumOf(t, metrics["ledger_shifts_opened_total"]))
	assert.Equal(t, int64(2), sumOf(t, metrics["ledger_shifts_closed_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["ledger_movements_recorded_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["ledger_movements_deleted_total"]))
	assert.Equal(t, int64(1), sumOf(t, metrics["ledger_advance_transitions_total"]))

	closed := metrics["ledger_shifts_closed_total"].Data.(metricdata.Sum[int64])
	outcomes := map[string]bool{}
	for _, dp := range closed.DataPoints {
		v, ok := dp.Attributes.Value(AttrOutcome)
		require.True(t, ok)
		outcomes[v.AsString()] = true
	}
	assert.True(t, outcomes[OutcomeShortage])
	assert.True(t, outcomes[OutcomeExact])

	hist, ok := metrics["ledger_close_discrepancy_abs"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(2), hist.DataPoints[0].Count)
	assert.InDelta(t, 50.0, hist.DataPoints[0].Sum, 0.001)
}
