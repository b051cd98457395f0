// ABOUTME: Advisory risk notes derived from inputs and computed results
// ABOUTME: Independent additive rules evaluated in a fixed order

package services

import (
	"fmt"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

const (
	lowEfficiencyScore      = 40
	largeReserveFraction    = 0.5
	highSpotPct             = 80.0
	minSafeExecutorMemoryGB = 6.0
	crowdedExecutorsPerNode = 10
	partitionImbalance      = 4.0
	inputPerExecutorRatio   = 0.5
	peakMemoryRatio         = 0.9
	shufflePerExecutorRatio = 0.25
	runtimeSpreadRatio      = 3.0
	idleBusyHoursPerDay     = 12.0
)

// riskRule inspects one aspect of a request and returns a note, or "".
type riskRule func(in models.ClusterInput, packing models.PackingResult, cost models.CostResult) string

// RiskAnnotator emits human-readable caution notes
type RiskAnnotator struct {
	rules []riskRule
}

// NewRiskAnnotator creates an annotator with the standard rule set
func NewRiskAnnotator() *RiskAnnotator {
	return &RiskAnnotator{
		rules: []riskRule{
			executorDoesNotFit,
			lowEfficiency,
			highSkew,
			largeReserve,
			highSpot,
			smallExecutorMemory,
			crowdedNode,
			partitionMismatch,
			largeInputPerExecutor,
			sharedClusterUtilization,
			peakNearLimit,
			heavyShuffle,
			runtimeVariance,
			likelyIdle,
		},
	}
}

// Risks returns every note whose rule fires, in rule order. The result is
// never nil so it serializes as an empty list.
func (a *RiskAnnotator) Risks(in models.ClusterInput, packing models.PackingResult, cost models.CostResult) []string {
	notes := []string{}
	for _, rule := range a.rules {
		if note := rule(in, packing, cost); note != "" {
			notes = append(notes, note)
		}
	}
	return notes
}

func executorDoesNotFit(in models.ClusterInput, packing models.PackingResult, _ models.CostResult) string {
	if packing.ExecutorsPerNode > 0 {
		return ""
	}
	return fmt.Sprintf("Executor (%d cores, %.1f GB) does not fit on a node after reserve headroom; no executors can be scheduled.",
		in.Executor.Cores, in.Executor.MemoryGB)
}

func lowEfficiency(_ models.ClusterInput, packing models.PackingResult, _ models.CostResult) string {
	if packing.EfficiencyScore >= lowEfficiencyScore {
		return ""
	}
	return fmt.Sprintf("Low packing efficiency (%d/100); a large share of node capacity is paid for but unused.",
		packing.EfficiencyScore)
}

func highSkew(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	if skew, ok := in.Workload.DataSkew.Get(); !ok || skew != models.SkewHigh {
		return ""
	}
	return "High data skew may understate waste: tail tasks leave executors idle. Consider repartitioning or salting keys."
}

func largeReserve(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	coreShare := float64(in.Reserve.ReserveCores) / float64(in.Node.Cores)
	memShare := in.Reserve.ReserveMemoryGB / in.Node.MemoryGB
	if coreShare < largeReserveFraction && memShare < largeReserveFraction {
		return ""
	}
	return fmt.Sprintf("Reserve headroom is unusually large (%.0f%% of cores, %.0f%% of memory per node).",
		coreShare*100, memShare*100)
}

func highSpot(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	spot, ok := in.Workload.SpotPct.Get()
	if !ok || spot <= highSpotPct {
		return ""
	}
	return fmt.Sprintf("High spot reliance (%.0f%%); pricing is volatile and interruptions are likely.", spot)
}

func smallExecutorMemory(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	if in.Executor.MemoryGB >= minSafeExecutorMemoryGB {
		return ""
	}
	return "Executor memory below 6 GB may increase OOM likelihood for many workloads."
}

func crowdedNode(_ models.ClusterInput, packing models.PackingResult, _ models.CostResult) string {
	if packing.ExecutorsPerNode <= crowdedExecutorsPerNode {
		return ""
	}
	return "High executors per node may increase scheduling and GC overhead."
}

func partitionMismatch(in models.ClusterInput, packing models.PackingResult, _ models.CostResult) string {
	partitions, ok := in.Workload.PartitionCount.Get()
	if !ok || packing.ExecutorsPerNode == 0 {
		return ""
	}
	totalCores := in.Node.Count * packing.ExecutorsPerNode * in.Executor.Cores
	switch {
	case float64(partitions) > partitionImbalance*float64(totalCores):
		return fmt.Sprintf("Partition count (%d) is much higher than total executor cores (%d); consider a larger cluster or fewer partitions.",
			partitions, totalCores)
	case float64(totalCores) > partitionImbalance*float64(partitions):
		return fmt.Sprintf("Total executor cores (%d) is much higher than partition count (%d); some cores may sit idle.",
			totalCores, partitions)
	}
	return ""
}

func largeInputPerExecutor(in models.ClusterInput, packing models.PackingResult, _ models.CostResult) string {
	dataGB, ok := in.Workload.InputDataGB.Get()
	total := in.Node.Count * packing.ExecutorsPerNode
	if !ok || total == 0 {
		return ""
	}
	if dataGB/float64(total) <= inputPerExecutorRatio*in.Executor.MemoryGB {
		return ""
	}
	return fmt.Sprintf("Input data per job (%.0f GB) is large relative to executor memory (%.0f GB); expect spill and shuffle pressure.",
		dataGB, in.Executor.MemoryGB)
}

func sharedClusterUtilization(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	jobs, ok := in.Workload.ConcurrentJobs.Get()
	if !ok || jobs <= 1 {
		return ""
	}
	if uf, set := in.Assumptions.UtilizationFactor.Get(); set && uf < 1.0 {
		return ""
	}
	return fmt.Sprintf("Cluster runs ~%.0f concurrent jobs; set a utilization factor if cost should reflect shared usage.", jobs)
}

func peakNearLimit(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	peak, ok := in.Workload.PeakExecutorMemoryGB.Get()
	if !ok || peak < peakMemoryRatio*in.Executor.MemoryGB {
		return ""
	}
	return fmt.Sprintf("Observed peak executor memory (%.1f GB) is close to or above configured (%.1f GB); OOM and spill risk is elevated.",
		peak, in.Executor.MemoryGB)
}

func heavyShuffle(in models.ClusterInput, packing models.PackingResult, _ models.CostResult) string {
	shuffleGB := in.Workload.ShuffleGB()
	total := in.Node.Count * packing.ExecutorsPerNode
	if shuffleGB <= 0 || total == 0 {
		return ""
	}
	if shuffleGB/float64(total) <= shufflePerExecutorRatio*in.Executor.MemoryGB {
		return ""
	}
	return "High shuffle volume relative to executor memory may increase spill and I/O."
}

func runtimeVariance(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	lo, okLo := in.Workload.MinRuntimeMinutes.Get()
	hi, okHi := in.Workload.MaxRuntimeMinutes.Get()
	if !okLo || !okHi || lo <= 0 || hi <= runtimeSpreadRatio*lo {
		return ""
	}
	return fmt.Sprintf("Job runtimes range from %.0f to %.0f minutes; cost estimates based on the average are less stable.", lo, hi)
}

func likelyIdle(in models.ClusterInput, _ models.PackingResult, _ models.CostResult) string {
	if in.Assumptions.UtilizationFactor.Valid {
		return ""
	}
	busyHours := in.Workload.JobsPerDay * in.Workload.AvgRuntimeMinutes / 60
	if busyHours >= idleBusyHoursPerDay {
		return ""
	}
	return fmt.Sprintf("Jobs keep the cluster busy about %.1f hours a day; without a utilization factor the estimate assumes it runs around the clock.", busyHours)
}
