// ABOUTME: Monthly cost and waste model for a node pool
// ABOUTME: Blends spot pricing and projects compounded monthly growth

package services

import (
	"math"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

const (
	// HoursPerMonth is the fixed billing month.
	HoursPerMonth = 730.0
	// SpotDiscount is the assumed discount of spot over on-demand capacity.
	SpotDiscount = 0.6
	// DefaultUtilizationFactor assumes the cluster runs all month.
	DefaultUtilizationFactor = 1.0
)

// CostModel computes spend and waste from a packing result
type CostModel struct{}

// NewCostModel creates a new cost model
func NewCostModel() *CostModel {
	return &CostModel{}
}

// EffectiveHourly blends on-demand and spot prices by spot share.
func EffectiveHourly(hourly float64, workload models.WorkloadProfile) float64 {
	spot, ok := workload.SpotPct.Get()
	if !ok {
		return hourly
	}
	return hourly * (1 - spot/100*SpotDiscount)
}

// Cost computes monthly spend, waste, and the optional forecast. Values are
// full precision; callers round for display.
func (m *CostModel) Cost(node models.NodeShape, packing models.PackingResult, workload models.WorkloadProfile, assumptions models.CostAssumptions) models.CostResult {
	hourly := EffectiveHourly(node.HourlyCostUSD, workload)
	uf := assumptions.UtilizationFactor.OrElse(DefaultUtilizationFactor)

	monthly := hourly * float64(node.Count) * HoursPerMonth * uf
	waste := monthly * (1 - float64(packing.EfficiencyScore)/100)

	return models.CostResult{
		MonthlyCostUSD:      monthly,
		WasteCostMonthlyUSD: waste,
		EffectiveHourlyUSD:  hourly,
		Forecast:            m.Forecast(monthly, assumptions),
	}
}

// Forecast projects monthly cost for months 1..N compounding growth_rate_pct
// each month. It returns nil unless forecast_months > 1.
func (m *CostModel) Forecast(monthly float64, assumptions models.CostAssumptions) []models.ForecastPoint {
	months := assumptions.ForecastMonths.OrElse(1)
	if months <= 1 {
		return nil
	}

	growth := 1 + assumptions.GrowthRatePct.OrElse(0)/100
	points := make([]models.ForecastPoint, months)
	for i := range points {
		month := i + 1
		points[i] = models.ForecastPoint{
			Month:            month,
			ProjectedCostUSD: monthly * math.Pow(growth, float64(month)),
		}
	}
	return points
}

// CompareForecasts pairs current and recommended projections month by month.
func CompareForecasts(current, recommended []models.ForecastPoint) []models.ForecastComparison {
	n := min(len(current), len(recommended))
	if n == 0 {
		return nil
	}
	out := make([]models.ForecastComparison, n)
	for i := 0; i < n; i++ {
		out[i] = models.ForecastComparison{
			Month:          current[i].Month,
			CurrentUSD:     current[i].ProjectedCostUSD,
			RecommendedUSD: recommended[i].ProjectedCostUSD,
			SavingsUSD:     current[i].ProjectedCostUSD - recommended[i].ProjectedCostUSD,
		}
	}
	return out
}
