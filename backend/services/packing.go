// ABOUTME: Packing calculator for executors on a single node
// ABOUTME: Dual CPU/memory constraint with skew and shuffle-spill penalties

package services

import (
	"math"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// Skew penalties model the under-utilization caused by uneven task sizes.
var skewPenalties = map[models.DataSkew]float64{
	models.SkewLow:    1.0,
	models.SkewMedium: 0.85,
	models.SkewHigh:   0.70,
}

const (
	// shufflePenalty applies when shuffle volume risks spilling to disk.
	shufflePenalty = 0.90
	// shuffleSpillMultiple is how many node-worths of executor memory the
	// shuffle may reach before the spill penalty applies.
	shuffleSpillMultiple = 4.0
)

// PackingCalculator computes how executors fit on a node
type PackingCalculator struct{}

// NewPackingCalculator creates a new packing calculator
func NewPackingCalculator() *PackingCalculator {
	return &PackingCalculator{}
}

// ExecutorsPerNode returns min(floor(eff_cores/exec_cores), floor(eff_mem/exec_mem)),
// or 0 when the reserve consumes either resource.
func ExecutorsPerNode(node models.NodeShape, executor models.ExecutorShape, reserve models.ReserveHeadroom) int {
	effCores := node.Cores - reserve.ReserveCores
	effMem := node.MemoryGB - reserve.ReserveMemoryGB
	if effCores <= 0 || effMem <= 0 || executor.Cores <= 0 || executor.MemoryGB <= 0 {
		return 0
	}

	byCPU := effCores / executor.Cores
	byMemory := int(math.Floor(effMem / executor.MemoryGB))
	return max(0, min(byCPU, byMemory))
}

// Pack computes the packing result for one node of the pool.
func (c *PackingCalculator) Pack(node models.NodeShape, executor models.ExecutorShape, reserve models.ReserveHeadroom, workload models.WorkloadProfile) models.PackingResult {
	effCores := max(0, node.Cores-reserve.ReserveCores)
	effMem := math.Max(0, node.MemoryGB-reserve.ReserveMemoryGB)

	n := ExecutorsPerNode(node, executor, reserve)
	if n == 0 {
		return models.PackingResult{
			CoresWasted:    effCores,
			MemoryWastedGB: effMem,
			PenaltyFactor:  1.0,
			Bottleneck:     models.BottleneckNone,
		}
	}

	coresUsed := n * executor.Cores
	memUsed := float64(n) * executor.MemoryGB

	cpuUtil := float64(coresUsed) / float64(node.Cores)
	memUtil := memUsed / node.MemoryGB
	raw := (cpuUtil + memUtil) / 2

	penalty := skewPenalty(workload) * spillPenalty(executor, workload, n)
	score := int(math.Round(clamp(raw*penalty, 0, 1) * 100))

	return models.PackingResult{
		ExecutorsPerNode:  n,
		EfficiencyScore:   score,
		CoresUsed:         coresUsed,
		MemoryUsedGB:      memUsed,
		CoresWasted:       max(0, effCores-coresUsed),
		MemoryWastedGB:    math.Max(0, effMem-memUsed),
		CPUUtilization:    cpuUtil,
		MemoryUtilization: memUtil,
		PenaltyFactor:     penalty,
		Bottleneck: models.ClassifyBottleneck(n,
			float64(coresUsed)/float64(effCores)*100,
			memUsed/effMem*100),
	}
}

// skewPenalty treats absent or unknown skew as low.
func skewPenalty(workload models.WorkloadProfile) float64 {
	skew, ok := workload.DataSkew.Get()
	if !ok {
		return 1.0
	}
	if p, found := skewPenalties[skew]; found {
		return p
	}
	return 1.0
}

// spillPenalty compares combined shuffle volume with the node's executor
// memory, using observed peak memory when known.
func spillPenalty(executor models.ExecutorShape, workload models.WorkloadProfile, executorsPerNode int) float64 {
	shuffleGB := workload.ShuffleGB()
	if shuffleGB <= 0 {
		return 1.0
	}
	refMem := workload.PeakExecutorMemoryGB.OrElse(executor.MemoryGB)
	if shuffleGB > shuffleSpillMultiple*refMem*float64(executorsPerNode) {
		return shufflePenalty
	}
	return 1.0
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
