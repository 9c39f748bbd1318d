package meter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockConsumptionHistory(t *testing.T) {
	client := NewClient("", "", true)
	end := time.Date(2025, time.May, 10, 18, 0, 0, 0, time.UTC)

	readings, err := client.GetConsumptionHistory("EAC-001", end, 7)
	require.NoError(t, err)
	require.Len(t, readings, 7*24)

	for _, r := range readings {
		assert.True(t, r.Timestamp.Before(end))
		if h := r.Timestamp.Hour(); h >= 17 && h <= 20 {
			assert.GreaterOrEqual(t, r.ConsumptionKWh, 0.6)
			assert.LessOrEqual(t, r.ConsumptionKWh, 1.0)
		} else {
			assert.GreaterOrEqual(t, r.ConsumptionKWh, 0.2)
			assert.LessOrEqual(t, r.ConsumptionKWh, 0.5)
		}
	}
}

func TestMockConsumptionHistoryConfiguredPeakWindow(t *testing.T) {
	client := NewClient("", "", true).WithPeakHours(10, 12)
	end := time.Date(2025, time.May, 10, 18, 0, 0, 0, time.UTC)

	readings, err := client.GetConsumptionHistory("EAC-001", end, 2)
	require.NoError(t, err)

	for _, r := range readings {
		if h := r.Timestamp.Hour(); h >= 10 && h <= 12 {
			assert.GreaterOrEqual(t, r.ConsumptionKWh, 0.6)
		} else {
			assert.LessOrEqual(t, r.ConsumptionKWh, 0.5)
		}
	}

	t.Run("invalid window keeps the current hours", func(t *testing.T) {
		client := NewClient("", "", true).WithPeakHours(22, 3)
		assert.Equal(t, 17, client.PeakStart)
		assert.Equal(t, 20, client.PeakEnd)
	})
}
