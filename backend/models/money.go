// ABOUTME: Presentation rounding for currency and ratios
// ABOUTME: Engine values stay full precision; only response DTOs are rounded

package models

import "github.com/shopspring/decimal"

// RoundUSD rounds a dollar amount to cents, half away from zero.
func RoundUSD(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// RoundPrice rounds an hourly price to 4 places.
func RoundPrice(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(4).Float64()
	return f
}

// RoundRatio rounds a 0..1 ratio to 4 places.
func RoundRatio(v float64) float64 {
	return RoundPrice(v)
}

// RoundCost returns a copy of c with every dollar figure rounded to cents.
func RoundCost(c CostResult) CostResult {
	out := CostResult{
		MonthlyCostUSD:      RoundUSD(c.MonthlyCostUSD),
		WasteCostMonthlyUSD: RoundUSD(c.WasteCostMonthlyUSD),
		EffectiveHourlyUSD:  RoundPrice(c.EffectiveHourlyUSD),
	}
	if len(c.Forecast) > 0 {
		out.Forecast = make([]ForecastPoint, len(c.Forecast))
		for i, p := range c.Forecast {
			out.Forecast[i] = ForecastPoint{Month: p.Month, ProjectedCostUSD: RoundUSD(p.ProjectedCostUSD)}
		}
	}
	return out
}

// RoundPacking returns a copy of p with fractional fields rounded for display.
func RoundPacking(p PackingResult) PackingResult {
	p.MemoryUsedGB = RoundRatio(p.MemoryUsedGB)
	p.MemoryWastedGB = RoundRatio(p.MemoryWastedGB)
	p.CPUUtilization = RoundRatio(p.CPUUtilization)
	p.MemoryUtilization = RoundRatio(p.MemoryUtilization)
	p.PenaltyFactor = RoundRatio(p.PenaltyFactor)
	return p
}
