// ABOUTME: Recommended alternative configuration drawn from an instance catalog
// ABOUTME: Carries the candidate shape, its packing and cost, and savings versus current

package models

// Candidate is an (instance shape x executor shape) pair under evaluation.
type Candidate struct {
	ProviderID string        `json:"provider_id"`
	InstanceID string        `json:"instance_id"`
	Region     string        `json:"region,omitempty"`
	Node       NodeShape     `json:"node"`
	Executor   ExecutorShape `json:"executor"`
}

// Recommendation is the top-ranked feasible candidate. SavingsVsCurrentMonthlyUSD
// may be zero or negative when nothing in the catalog beats the current setup.
type Recommendation struct {
	Candidate                  Candidate     `json:"candidate"`
	Packing                    PackingResult `json:"packing"`
	Cost                       CostResult    `json:"cost"`
	SavingsVsCurrentMonthlyUSD float64       `json:"savings_vs_current_monthly_usd"`
	CandidatesEvaluated        int           `json:"candidates_evaluated"`
	CandidatesFeasible         int           `json:"candidates_feasible"`
}

// Improves reports whether the recommendation is cheaper than current.
func (r *Recommendation) Improves() bool {
	return r != nil && r.SavingsVsCurrentMonthlyUSD > 0
}

// ExecutorTuning is the best executor shape for the current nodes. Node shape,
// count and price are unchanged, so only efficiency and waste move.
type ExecutorTuning struct {
	Executor                 ExecutorShape `json:"executor"`
	Packing                  PackingResult `json:"packing"`
	Cost                     CostResult    `json:"cost"`
	EfficiencyGain           int           `json:"efficiency_gain"`
	WasteReductionMonthlyUSD float64       `json:"waste_reduction_monthly_usd"`
	CandidatesEvaluated      int           `json:"candidates_evaluated"`
}

// Improves reports whether the tuned executor packs better than current.
func (t *ExecutorTuning) Improves() bool {
	return t != nil && t.EfficiencyGain > 0
}

// ForecastComparison is one month of current vs recommended projected spend.
type ForecastComparison struct {
	Month          int     `json:"month"`
	CurrentUSD     float64 `json:"current_usd"`
	RecommendedUSD float64 `json:"recommended_usd"`
	SavingsUSD     float64 `json:"savings_usd"`
}
