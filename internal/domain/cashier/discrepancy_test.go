package cashier

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDiscrepancyRecord(t *testing.T) {
	t.Run("projects closed shift", func(t *testing.T) {
		s := newTestShift(t, "1000")
		closer := uuid.New()
		result, err := Reconcile(s, nil, dec("950"))
		require.NoError(t, err)
		require.NoError(t, s.Close(closer, result, ""))

		rec, err := NewDiscrepancyRecord(s)
		require.NoError(t, err)
		assert.Equal(t, s.ID, rec.ShiftID)
		assert.Equal(t, s.RegisterID, rec.RegisterID)
		assert.Equal(t, closer, rec.OperatorID)
		assert.True(t, rec.Discrepancy.Equal(dec("-50")))
		assert.Equal(t, s.ShiftDate(), rec.ShiftDate)
	})

	t.Run("open shift has no record", func(t *testing.T) {
		_, err := NewDiscrepancyRecord(newTestShift(t, "0"))
		assert.Error(t, err)
	})
}

func TestComputeAccuracy(t *testing.T) {
	operatorID := uuid.New()

	t.Run("no records", func(t *testing.T) {
		stats := ComputeAccuracy(operatorID, nil)
		assert.Equal(t, 0, stats.ShiftsClosed)
		assert.True(t, stats.ExactPercentage.IsZero())
		assert.True(t, stats.MeanAbsDiscrepancy.IsZero())
	})

	t.Run("mixed history", func(t *testing.T) {
		records := []DiscrepancyRecord{
			{Discrepancy: dec("0")},
			{Discrepancy: dec("0")},
			{Discrepancy: dec("-50")},
			{Discrepancy: dec("20")},
			{Discrepancy: dec("0")},
			{Discrepancy: dec("-10.5")},
		}
		stats := ComputeAccuracy(operatorID, records)

		assert.Equal(t, 6, stats.ShiftsClosed)
		assert.Equal(t, 3, stats.ExactShifts)
		assert.Equal(t, 2, stats.ShortageShifts)
		assert.Equal(t, 1, stats.OverageShifts)
		assert.Equal(t, "50", stats.ExactPercentage.String())
		assert.True(t, stats.TotalShortage.Equal(dec("60.5")))
		assert.True(t, stats.TotalOverage.Equal(dec("20")))
		assert.True(t, stats.NetDiscrepancy.Equal(dec("-40.5")))
		assert.True(t, stats.MeanAbsDiscrepancy.Equal(dec("13.42")))
	})

	t.Run("percentage rounds to two places", func(t *testing.T) {
		stats := ComputeAccuracy(operatorID, []DiscrepancyRecord{
			{Discrepancy: dec("0")}, {Discrepancy: dec("1")}, {Discrepancy: dec("1")},
		})
		assert.Equal(t, "33.33", stats.ExactPercentage.String())
	})
}
