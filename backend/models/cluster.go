// ABOUTME: Input shapes describing a cluster configuration to analyze
// ABOUTME: Node pool, executor request, reserved headroom, workload profile, and cost assumptions

package models

// NodeShape is one homogeneous pool of cluster nodes.
type NodeShape struct {
	Cores         int     `json:"cores" yaml:"cores" validate:"gt=0,lte=1024"`
	MemoryGB      float64 `json:"memory_gb" yaml:"memory_gb" validate:"gt=0,lte=16384"`
	HourlyCostUSD float64 `json:"hourly_cost_usd" yaml:"hourly_cost_usd" validate:"gte=0"`
	Count         int     `json:"count" yaml:"count" validate:"gte=1,lte=100000"`
}

// ExecutorShape is the per-executor resource request.
type ExecutorShape struct {
	Cores    int     `json:"cores" yaml:"cores" validate:"gt=0,lte=256"`
	MemoryGB float64 `json:"memory_gb" yaml:"memory_gb" validate:"gte=0.125,lte=4096"`
}

// ReserveHeadroom is withheld per node for OS and daemon overhead.
type ReserveHeadroom struct {
	ReserveCores    int     `json:"reserve_cores" yaml:"reserve_cores" validate:"gte=0"`
	ReserveMemoryGB float64 `json:"reserve_memory_gb" yaml:"reserve_memory_gb" validate:"gte=0"`
}

// DataSkew is the qualitative task-size imbalance across partitions.
type DataSkew string

const (
	SkewLow    DataSkew = "low"
	SkewMedium DataSkew = "medium"
	SkewHigh   DataSkew = "high"
)

// WorkloadProfile describes how the cluster is used. Absent optional fields
// mean "unknown" and fall back to conservative defaults in the engine.
type WorkloadProfile struct {
	AvgRuntimeMinutes float64 `json:"avg_runtime_minutes" yaml:"avg_runtime_minutes" validate:"gt=0,lte=1440"`
	JobsPerDay        float64 `json:"jobs_per_day" yaml:"jobs_per_day" validate:"gte=0,lte=1000000"`

	MinRuntimeMinutes    Optional[float64]  `json:"min_runtime_minutes,omitzero" yaml:"min_runtime_minutes" validate:"omitempty,gte=0,lte=1440"`
	MaxRuntimeMinutes    Optional[float64]  `json:"max_runtime_minutes,omitzero" yaml:"max_runtime_minutes" validate:"omitempty,gte=0,lte=1440"`
	PartitionCount       Optional[int]      `json:"partition_count,omitzero" yaml:"partition_count" validate:"omitempty,gt=0"`
	InputDataGB          Optional[float64]  `json:"input_data_gb,omitzero" yaml:"input_data_gb" validate:"omitempty,gt=0"`
	ConcurrentJobs       Optional[float64]  `json:"concurrent_jobs,omitzero" yaml:"concurrent_jobs" validate:"omitempty,gt=0"`
	PeakExecutorMemoryGB Optional[float64]  `json:"peak_executor_memory_gb,omitzero" yaml:"peak_executor_memory_gb" validate:"omitempty,gt=0"`
	ShuffleReadMB        Optional[float64]  `json:"shuffle_read_mb,omitzero" yaml:"shuffle_read_mb" validate:"omitempty,gte=0"`
	ShuffleWriteMB       Optional[float64]  `json:"shuffle_write_mb,omitzero" yaml:"shuffle_write_mb" validate:"omitempty,gte=0"`
	DataSkew             Optional[DataSkew] `json:"data_skew,omitzero" yaml:"data_skew" validate:"omitempty,oneof=low medium high"`
	SpotPct              Optional[float64]  `json:"spot_pct,omitzero" yaml:"spot_pct" validate:"omitempty,gte=0,lte=100"`
	AutoscaleMinNodes    Optional[int]      `json:"autoscale_min_nodes,omitzero" yaml:"autoscale_min_nodes" validate:"omitempty,gt=0"`
	AutoscaleMaxNodes    Optional[int]      `json:"autoscale_max_nodes,omitzero" yaml:"autoscale_max_nodes" validate:"omitempty,gt=0"`
}

// ShuffleGB returns combined shuffle read and write volume in GB; absent
// fields count as zero.
func (w WorkloadProfile) ShuffleGB() float64 {
	return (w.ShuffleReadMB.OrElse(0) + w.ShuffleWriteMB.OrElse(0)) / 1024.0
}

// CostAssumptions are user-declared pricing and projection knobs.
type CostAssumptions struct {
	// UtilizationFactor is the fraction of the month the cluster runs. Defaults to 1.0.
	UtilizationFactor Optional[float64] `json:"utilization_factor,omitzero" yaml:"utilization_factor" validate:"omitempty,gt=0,lte=1"`
	// ForecastMonths > 1 enables a month-by-month projection. Defaults to 1.
	ForecastMonths Optional[int] `json:"forecast_months,omitzero" yaml:"forecast_months" validate:"omitempty,gt=0,lte=120"`
	// GrowthRatePct is compounded monthly and may be negative.
	GrowthRatePct Optional[float64] `json:"growth_rate_pct,omitzero" yaml:"growth_rate_pct" validate:"omitempty,gt=-100,lte=1000"`
}
