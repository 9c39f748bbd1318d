package services

import (
	"testing"
	"time"

	"github.com/powersave-cy/powersave-backend/pkg/meter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatHistory builds hourly readings at a constant kWh covering `days`
// full days ending at `end`.
func flatHistory(end time.Time, days int, kwhPerHour float64) []meter.Reading {
	base := end.Add(-time.Duration(days) * 24 * time.Hour).Truncate(time.Hour)

	var readings []meter.Reading
	for h := 0; h < days*24; h++ {
		readings = append(readings, meter.Reading{
			Timestamp:      base.Add(time.Duration(h) * time.Hour),
			ConsumptionKWh: kwhPerHour,
		})
	}
	return readings
}

func TestBaselineTenDayAverage(t *testing.T) {
	svc := NewBaselineService(testSessionConfig())
	start := time.Date(2025, time.March, 15, 18, 0, 0, 0, time.UTC)

	t.Run("flat consumption yields the window total", func(t *testing.T) {
		history := flatHistory(start, 12, 0.5)

		baseline, ok := svc.TenDayAverage(history, start, 3)
		require.True(t, ok)
		assert.InDelta(t, 1.5, baseline, 0.001)
	})

	t.Run("a single outlier day is discarded", func(t *testing.T) {
		history := flatHistory(start, 12, 0.5)
		// Inflate one day's window far beyond two standard deviations.
		outlierStart := start.Add(-3 * 24 * time.Hour)
		for i := range history {
			ts := history[i].Timestamp
			if !ts.Before(outlierStart) && ts.Before(outlierStart.Add(3*time.Hour)) {
				history[i].ConsumptionKWh = 10.0
			}
		}

		baseline, ok := svc.TenDayAverage(history, start, 3)
		require.True(t, ok)
		assert.InDelta(t, 1.5, baseline, 0.001)
	})

	t.Run("too few days of history refuses a baseline", func(t *testing.T) {
		history := flatHistory(start, 3, 0.5)

		_, ok := svc.TenDayAverage(history, start, 3)
		assert.False(t, ok)
	})

	t.Run("empty history refuses a baseline", func(t *testing.T) {
		_, ok := svc.TenDayAverage(nil, start, 3)
		assert.False(t, ok)
	})
}

func TestBaselineSameWeekdayAverage(t *testing.T) {
	svc := NewBaselineService(testSessionConfig())
	start := time.Date(2025, time.March, 15, 18, 0, 0, 0, time.UTC)

	history := flatHistory(start, 30, 0.4)
	baseline, ok := svc.SameWeekdayAverage(history, start, 3, 4)
	require.True(t, ok)
	assert.InDelta(t, 1.2, baseline, 0.001)
}

func TestBaselineSeasonalAdjustment(t *testing.T) {
	svc := NewBaselineService(testSessionConfig())

	assert.InDelta(t, 1.30, svc.SeasonalAdjustment(1.0, time.July), 0.001)
	assert.InDelta(t, 0.95, svc.SeasonalAdjustment(1.0, time.April), 0.001)
	assert.InDelta(t, 1.00, svc.SeasonalAdjustment(1.0, time.March), 0.001)
}

func TestBaselineValidate(t *testing.T) {
	svc := NewBaselineService(testSessionConfig())

	assert.True(t, svc.Validate(2.5))
	assert.False(t, svc.Validate(0))
	assert.False(t, svc.Validate(-1))
	assert.False(t, svc.Validate(10.5))
}

func TestAverageWithOutlierRemoval(t *testing.T) {
	t.Run("fewer than three values returns the plain mean", func(t *testing.T) {
		assert.InDelta(t, 5.0, averageWithOutlierRemoval([]float64{4, 6}), 0.001)
	})

	t.Run("outliers beyond two sigma are dropped", func(t *testing.T) {
		values := []float64{2, 2, 2, 2, 2, 2, 2, 2, 2, 50}
		avg := averageWithOutlierRemoval(values)
		assert.InDelta(t, 2.0, avg, 0.001)
	})
}
