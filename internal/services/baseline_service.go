package services

import (
	"math"
	"time"

	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/pkg/meter"
)

// Baseline calculation methods recorded on the session.
const (
	BaselineTenDayAverage = "10_DAY_AVERAGE"
	BaselineSameWeekday   = "SAME_WEEKDAY_AVERAGE"
	BaselineUnavailable   = "UNAVAILABLE"
)

// BaselineService estimates the expected consumption for a session window
// from historical meter readings. The estimate is what the session's actual
// consumption is measured against, so it deliberately discards outliers and
// refuses to produce a value from thin data.
type BaselineService struct {
	cfg config.SessionConfig
}

// NewBaselineService creates a new BaselineService
func NewBaselineService(cfg config.SessionConfig) *BaselineService {
	return &BaselineService{cfg: cfg}
}

// TenDayAverage averages the consumption of the same time window over the
// past BaselineDays days, dropping outliers beyond two standard deviations.
// The second return value is false when there are too few usable days.
func (s *BaselineService) TenDayAverage(history []meter.Reading, sessionStart time.Time, durationHours int) (float64, bool) {
	var windows []float64
	for i := 1; i <= s.cfg.BaselineDays; i++ {
		dayStart := sessionStart.Add(-time.Duration(i) * 24 * time.Hour)
		if total, ok := windowConsumption(history, dayStart, durationHours); ok {
			windows = append(windows, total)
		}
	}

	if len(windows) < s.cfg.MinBaselineSamples {
		return 0, false
	}
	return averageWithOutlierRemoval(windows), true
}

// SameWeekdayAverage averages the same weekday's window over the past
// weeksBack weeks. Used when the household has a strongly weekly rhythm.
func (s *BaselineService) SameWeekdayAverage(history []meter.Reading, sessionStart time.Time, durationHours, weeksBack int) (float64, bool) {
	var windows []float64
	for i := 1; i <= weeksBack; i++ {
		dayStart := sessionStart.Add(-time.Duration(i) * 7 * 24 * time.Hour)
		if total, ok := windowConsumption(history, dayStart, durationHours); ok {
			windows = append(windows, total)
		}
	}

	if len(windows) < 2 {
		return 0, false
	}
	return averageWithOutlierRemoval(windows), true
}

// SeasonalAdjustment scales a baseline by the month's consumption factor.
// Cyprus peaks in summer (air conditioning) and winter (heating).
func (s *BaselineService) SeasonalAdjustment(baseline float64, month time.Month) float64 {
	factors := map[time.Month]float64{
		time.January:   1.15,
		time.February:  1.10,
		time.March:     1.00,
		time.April:     0.95,
		time.May:       1.05,
		time.June:      1.20,
		time.July:      1.30,
		time.August:    1.30,
		time.September: 1.20,
		time.October:   1.00,
		time.November:  1.05,
		time.December:  1.15,
	}

	factor, ok := factors[month]
	if !ok {
		factor = 1.0
	}
	return baseline * factor
}

// Validate reports whether a baseline is usable: positive and below the
// configured per-session ceiling for a household.
func (s *BaselineService) Validate(baseline float64) bool {
	return baseline > 0 && baseline <= s.cfg.MaxBaselineKWh
}

// windowConsumption sums the readings inside [dayStart, dayStart+duration).
func windowConsumption(history []meter.Reading, dayStart time.Time, durationHours int) (float64, bool) {
	dayEnd := dayStart.Add(time.Duration(durationHours) * time.Hour)

	var total float64
	for _, r := range history {
		if !r.Timestamp.Before(dayStart) && r.Timestamp.Before(dayEnd) {
			total += r.ConsumptionKWh
		}
	}
	return total, total > 0
}

// averageWithOutlierRemoval drops values more than two standard deviations
// from the mean before averaging. With fewer than three values there is no
// meaningful deviation, so the plain mean is returned.
func averageWithOutlierRemoval(values []float64) float64 {
	if len(values) < 3 {
		return mean(values)
	}

	m := mean(values)
	sd := stddev(values, m)

	var filtered []float64
	for _, v := range values {
		if math.Abs(v-m) <= 2*sd {
			filtered = append(filtered, v)
		}
	}
	if len(filtered) == 0 {
		filtered = values
	}
	return mean(filtered)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
