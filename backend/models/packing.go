// ABOUTME: Derived results of packing and cost evaluation
// ABOUTME: Recomputed on every evaluation and never persisted

package models

// PackingResult describes how executors fit on a single node.
type PackingResult struct {
	ExecutorsPerNode int `json:"executors_per_node"`
	EfficiencyScore  int `json:"efficiency_score"`

	CoresUsed      int     `json:"cores_used"`
	MemoryUsedGB   float64 `json:"memory_used_gb"`
	CoresWasted    int     `json:"cores_wasted"`
	MemoryWastedGB float64 `json:"memory_wasted_gb"`

	// CPUUtilization and MemoryUtilization are used/total before any penalty.
	CPUUtilization    float64 `json:"cpu_utilization"`
	MemoryUtilization float64 `json:"memory_utilization"`
	// PenaltyFactor is the product of the skew and shuffle-spill discounts.
	PenaltyFactor float64 `json:"penalty_factor"`
	// Bottleneck is "cpu", "memory", "balanced", or "none" when nothing fits.
	Bottleneck string `json:"bottleneck"`
}

// ForecastPoint is one projected month.
type ForecastPoint struct {
	Month            int     `json:"month"`
	ProjectedCostUSD float64 `json:"projected_cost_usd"`
}

// CostResult is the monthly spend and waste for a node pool.
type CostResult struct {
	MonthlyCostUSD      float64         `json:"monthly_cost_usd"`
	WasteCostMonthlyUSD float64         `json:"waste_cost_monthly_usd"`
	EffectiveHourlyUSD  float64         `json:"effective_hourly_usd"`
	Forecast            []ForecastPoint `json:"forecast,omitempty"`
}
