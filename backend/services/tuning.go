// ABOUTME: Executor right-sizing on the current node hardware
// ABOUTME: Runs the executor grid against the existing nodes without consulting a catalog

package services

import (
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// TuneExecutor returns the best executor shape for the current nodes, or nil
// when no grid shape of at least minSafeExecutorMemoryGB packs onto them.
// The best shape is returned even when it does not beat the current executor.
func (s *RecommendationSearch) TuneExecutor(current models.ClusterInput) *models.ExecutorTuning {
	node := current.Node
	peak, hasPeak := current.Workload.PeakExecutorMemoryGB.Get()

	var best *evaluation
	evaluated := 0
	for _, exec := range executorGrid(node, current.Reserve, current.Workload) {
		if evaluated >= s.maxCandidates {
			break
		}
		if exec.MemoryGB < minSafeExecutorMemoryGB {
			continue
		}
		evaluated++

		packing := s.packer.Pack(node, exec, current.Reserve, current.Workload)
		if packing.ExecutorsPerNode == 0 || (hasPeak && exec.MemoryGB < peak) {
			continue
		}
		ev := evaluation{
			candidate: models.Candidate{Node: node, Executor: exec},
			packing:   packing,
			cost:      s.coster.Cost(node, packing, current.Workload, current.Assumptions),
			feasible:  true,
		}
		if best == nil || ranksBefore(ev, *best) {
			best = &ev
		}
	}
	if best == nil {
		return nil
	}

	currentPacking := s.packer.Pack(node, current.Executor, current.Reserve, current.Workload)
	currentCost := s.coster.Cost(node, currentPacking, current.Workload, current.Assumptions)

	return &models.ExecutorTuning{
		Executor:                 best.candidate.Executor,
		Packing:                  best.packing,
		Cost:                     best.cost,
		EfficiencyGain:           best.packing.EfficiencyScore - currentPacking.EfficiencyScore,
		WasteReductionMonthlyUSD: currentCost.WasteCostMonthlyUSD - best.cost.WasteCostMonthlyUSD,
		CandidatesEvaluated:      evaluated,
	}
}
