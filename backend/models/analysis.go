// ABOUTME: Request and response payloads for the analysis endpoints
// ABOUTME: One cluster description feeds pack, cost, recommend, and analyze

package models

import "time"

// ClusterInput is the full description of the current configuration.
type ClusterInput struct {
	Node        NodeShape       `json:"node" yaml:"node"`
	Executor    ExecutorShape   `json:"executor" yaml:"executor"`
	Reserve     ReserveHeadroom `json:"reserve" yaml:"reserve"`
	Workload    WorkloadProfile `json:"workload" yaml:"workload"`
	Assumptions CostAssumptions `json:"assumptions" yaml:"assumptions"`
}

// AnalyzeRequest is a cluster description plus the catalog to search.
// Cloud may be empty, in which case no catalog search is attempted.
type AnalyzeRequest struct {
	ClusterInput `yaml:",inline"`

	Cloud  string `json:"cloud,omitempty" yaml:"cloud" validate:"omitempty,max=64,catalogid"`
	Region string `json:"region,omitempty" yaml:"region" validate:"omitempty,max=64,catalogid"`
}

// PackResponse is the packing diagnosis of the current configuration.
type PackResponse struct {
	Packing    PackingResult      `json:"packing"`
	Bottleneck BottleneckAnalysis `json:"bottleneck"`
}

// CostResponse is the packing diagnosis plus its monthly cost.
type CostResponse struct {
	Packing PackingResult `json:"packing"`
	Cost    CostResult    `json:"cost"`
}

// RecommendResponse wraps an optional recommendation. Message explains a nil result.
type RecommendResponse struct {
	Recommendation *Recommendation `json:"recommendation"`
	Message        string          `json:"message,omitempty"`
}

// AnalyzeResponse combines every engine output for one request.
type AnalyzeResponse struct {
	Packing            PackingResult        `json:"packing"`
	Bottleneck         BottleneckAnalysis   `json:"bottleneck"`
	Cost               CostResult           `json:"cost"`
	Recommendation     *Recommendation      `json:"recommendation"`
	ExecutorTuning     *ExecutorTuning      `json:"executor_tuning"`
	RiskNotes          []string             `json:"risk_notes"`
	ForecastComparison []ForecastComparison `json:"forecast_comparison,omitempty"`
	Metadata           AnalyzeMetadata      `json:"metadata"`
}

// AnalyzeMetadata describes how a response was produced.
type AnalyzeMetadata struct {
	Fingerprint string    `json:"fingerprint"`
	Cached      bool      `json:"cached"`
	Timestamp   time.Time `json:"timestamp"`
}

// Rounded returns a copy with money and ratios rounded for presentation.
// Slices are copied so cached values are never mutated.
func (r AnalyzeResponse) Rounded() AnalyzeResponse {
	out := r
	out.Packing = RoundPacking(r.Packing)
	out.Bottleneck = r.Bottleneck.Rounded()
	out.Cost = RoundCost(r.Cost)
	out.Recommendation = r.Recommendation.Rounded()
	out.ExecutorTuning = r.ExecutorTuning.Rounded()
	out.RiskNotes = append([]string{}, r.RiskNotes...)
	if len(r.ForecastComparison) > 0 {
		out.ForecastComparison = make([]ForecastComparison, len(r.ForecastComparison))
		for i, fc := range r.ForecastComparison {
			out.ForecastComparison[i] = ForecastComparison{
				Month:          fc.Month,
				CurrentUSD:     RoundUSD(fc.CurrentUSD),
				RecommendedUSD: RoundUSD(fc.RecommendedUSD),
				SavingsUSD:     RoundUSD(fc.SavingsUSD),
			}
		}
	}
	return out
}

// Rounded returns a rounded copy, or nil for a nil recommendation.
func (r *Recommendation) Rounded() *Recommendation {
	if r == nil {
		return nil
	}
	out := *r
	out.Packing = RoundPacking(r.Packing)
	out.Cost = RoundCost(r.Cost)
	out.SavingsVsCurrentMonthlyUSD = RoundUSD(r.SavingsVsCurrentMonthlyUSD)
	return &out
}

// Rounded returns a rounded copy, or nil when no tuning was found.
func (t *ExecutorTuning) Rounded() *ExecutorTuning {
	if t == nil {
		return nil
	}
	out := *t
	out.Packing = RoundPacking(t.Packing)
	out.Cost = RoundCost(t.Cost)
	out.WasteReductionMonthlyUSD = RoundUSD(t.WasteReductionMonthlyUSD)
	return &out
}
