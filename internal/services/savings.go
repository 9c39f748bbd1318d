package services

import (
	"github.com/powersave-cy/powersave-backend/internal/config"
	"github.com/powersave-cy/powersave-backend/internal/models"
	"github.com/shopspring/decimal"
)

// SavingsResult holds every metric derived from one completed session.
type SavingsResult struct {
	SavedKWh          float64
	SavedEUR          float64
	SavedCO2Kg        float64
	GreenPointsEarned int
	SavingsPercentage float64
}

// SavingsCalculator turns measured consumption reduction into money, CO2
// and points. All rates come from configuration; the math runs on decimals
// and is quantized to cents so repeated conversions cannot drift.
type SavingsCalculator struct {
	rate       decimal.Decimal
	co2Factor  decimal.Decimal
	pointsRate decimal.Decimal
	multiplier decimal.Decimal
}

// NewSavingsCalculator creates a calculator from the pricing configuration
func NewSavingsCalculator(cfg config.PricingConfig) *SavingsCalculator {
	return &SavingsCalculator{
		rate:       decimal.NewFromFloat(cfg.KWhToEURRate),
		co2Factor:  decimal.NewFromFloat(cfg.CO2EmissionFactor),
		pointsRate: decimal.NewFromInt(int64(cfg.GreenPointsPerKWh)),
		multiplier: decimal.NewFromFloat(cfg.DoublePointsMultiplier),
	}
}

// Calculate computes the savings for a session. A consumption at or above
// the baseline yields the zero result; negative savings never occur.
func (c *SavingsCalculator) Calculate(baselineKWh, actualKWh float64, doublePointsDay bool) SavingsResult {
	saved := decimal.NewFromFloat(baselineKWh).Sub(decimal.NewFromFloat(actualKWh))
	if saved.Sign() <= 0 {
		return SavingsResult{}
	}

	points := saved.Mul(c.pointsRate).IntPart()
	if doublePointsDay {
		points = decimal.NewFromInt(points).Mul(c.multiplier).IntPart()
	}

	pct := decimal.Zero
	if baselineKWh > 0 {
		pct = saved.Div(decimal.NewFromFloat(baselineKWh)).Mul(decimal.NewFromInt(100))
	}

	return SavingsResult{
		SavedKWh:          round2(saved),
		SavedEUR:          round2(saved.Mul(c.rate)),
		SavedCO2Kg:        round2(saved.Mul(c.co2Factor)),
		GreenPointsEarned: int(points),
		SavingsPercentage: round1(pct),
	}
}

// Coverage derives the waste-fee coverage metrics for a balance against an
// annual fee. The percentage is clamped at 100 exactly when the balance
// reaches the fee; months covered is the floor of balance over the monthly
// fee (one twelfth of the annual fee).
func (c *SavingsCalculator) Coverage(balance, annualFee float64) models.CoverageSnapshot {
	snapshot := models.CoverageSnapshot{
		CurrentBalance: balance,
		AnnualWasteFee: annualFee,
	}
	if annualFee <= 0 {
		return snapshot
	}

	b := decimal.NewFromFloat(balance)
	fee := decimal.NewFromFloat(annualFee)

	pct := b.Div(fee).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}

	monthly := fee.Div(decimal.NewFromInt(12))
	months := b.Div(monthly).Floor()

	remaining := fee.Sub(b)
	if remaining.Sign() < 0 {
		remaining = decimal.Zero
	}

	snapshot.CoveragePercentage = round1(pct)
	snapshot.MonthsCovered, _ = months.Float64()
	snapshot.RemainingToCover = round2(remaining)
	return snapshot
}

// WalletCreditFor splits a monetary saving by allocation percentage (0-100).
func (c *SavingsCalculator) WalletCreditFor(savedEUR float64, allocationPercentage int) float64 {
	if allocationPercentage <= 0 {
		return 0
	}
	if allocationPercentage > 100 {
		allocationPercentage = 100
	}
	credit := decimal.NewFromFloat(savedEUR).
		Mul(decimal.NewFromInt(int64(allocationPercentage))).
		Div(decimal.NewFromInt(100))
	return round2(credit)
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}
