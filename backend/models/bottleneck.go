// ABOUTME: Per-node bottleneck analysis for a packing result
// ABOUTME: Ranks CPU and memory by utilization of usable capacity and names the constraint

package models

import (
	"fmt"
	"math"
	"sort"
)

// Bottleneck labels carried on PackingResult.
const (
	BottleneckCPU      = "cpu"
	BottleneckMemory   = "memory"
	BottleneckBalanced = "balanced"
	BottleneckNone     = "none"
)

// balancedTolerancePct is the utilization gap below which neither resource dominates.
const balancedTolerancePct = 5.0

// ResourceUtilization represents the utilization of a single resource type
type ResourceUtilization struct {
	Name           string  `json:"name"`
	UsedPercent    float64 `json:"used_percent"`
	TotalCapacity  float64 `json:"total_capacity"`
	UsedCapacity   float64 `json:"used_capacity"`
	Unit           string  `json:"unit"`
	IsConstraining bool    `json:"is_constraining"`
}

// BottleneckAnalysis represents the complete bottleneck analysis result
type BottleneckAnalysis struct {
	Resources            []ResourceUtilization `json:"resources"`
	ConstrainingResource string                `json:"constraining_resource"`
	Summary              string                `json:"summary"`
}

// RankResourcesByUtilization sorts resources by utilization percentage in descending order
// and marks the highest utilization resource as constraining.
func RankResourcesByUtilization(resources []ResourceUtilization) []ResourceUtilization {
	if len(resources) == 0 {
		return resources
	}

	ranked := make([]ResourceUtilization, len(resources))
	copy(ranked, resources)

	// Stable so CPU wins exact ties
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].UsedPercent > ranked[j].UsedPercent
	})

	for i := range ranked {
		ranked[i].IsConstraining = (i == 0)
	}

	return ranked
}

// ClassifyBottleneck labels which resource stops further executors from fitting.
func ClassifyBottleneck(executors int, cpuUsedPct, memUsedPct float64) string {
	if executors == 0 {
		return BottleneckNone
	}
	if math.Abs(cpuUsedPct-memUsedPct) < balancedTolerancePct {
		return BottleneckBalanced
	}
	if cpuUsedPct > memUsedPct {
		return BottleneckCPU
	}
	return BottleneckMemory
}

// AnalyzeBottleneck compares used to usable (post-reserve) capacity on one node.
func AnalyzeBottleneck(node NodeShape, reserve ReserveHeadroom, packing PackingResult) BottleneckAnalysis {
	resources := buildResourceList(node, reserve, packing)
	ranked := RankResourcesByUtilization(resources)

	analysis := BottleneckAnalysis{
		Resources: ranked,
	}

	if len(ranked) == 0 {
		analysis.ConstrainingResource = BottleneckNone
		analysis.Summary = "Reserve headroom leaves no usable capacity on the node."
		return analysis
	}
	if packing.ExecutorsPerNode == 0 {
		analysis.ConstrainingResource = BottleneckNone
		analysis.Summary = "The executor does not fit on a node after reserve headroom."
		return analysis
	}

	analysis.ConstrainingResource = ranked[0].Name
	analysis.Summary = buildSummary(ranked)
	return analysis
}

// Rounded returns a copy with percentages and capacities rounded to two places.
func (b BottleneckAnalysis) Rounded() BottleneckAnalysis {
	out := b
	out.Resources = make([]ResourceUtilization, len(b.Resources))
	for i, r := range b.Resources {
		r.UsedPercent = RoundUSD(r.UsedPercent)
		r.TotalCapacity = RoundUSD(r.TotalCapacity)
		r.UsedCapacity = RoundUSD(r.UsedCapacity)
		out.Resources[i] = r
	}
	return out
}

func buildResourceList(node NodeShape, reserve ReserveHeadroom, packing PackingResult) []ResourceUtilization {
	effCores := float64(node.Cores - reserve.ReserveCores)
	effMem := node.MemoryGB - reserve.ReserveMemoryGB
	if effCores <= 0 || effMem <= 0 {
		return nil
	}

	return []ResourceUtilization{
		{
			Name:          "CPU",
			UsedPercent:   float64(packing.CoresUsed) / effCores * 100.0,
			TotalCapacity: effCores,
			UsedCapacity:  float64(packing.CoresUsed),
			Unit:          "cores",
		},
		{
			Name:          "Memory",
			UsedPercent:   packing.MemoryUsedGB / effMem * 100.0,
			TotalCapacity: effMem,
			UsedCapacity:  packing.MemoryUsedGB,
			Unit:          "GB",
		},
	}
}

func buildSummary(ranked []ResourceUtilization) string {
	constraining := ranked[0]
	other := ranked[len(ranked)-1]
	return fmt.Sprintf("%s limits packing at %.1f%% of usable capacity; %.1f %s of %s stay idle per node.",
		constraining.Name, constraining.UsedPercent,
		other.TotalCapacity-other.UsedCapacity, other.Unit, other.Name)
}
