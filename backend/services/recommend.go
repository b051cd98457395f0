// ABOUTME: Recommendation search over an instance catalog snapshot
// ABOUTME: Grid of instance x executor shapes, filtered by hard constraints and ranked by cost

package services

import (
	"cmp"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// executorCorePresets is the executor core grid, capped per candidate.
var executorCorePresets = []int{2, 4, 8, 16}

const (
	// maxExecutorsPerNode bounds the executors-per-node targets.
	maxExecutorsPerNode = 12
	// memoryStepGB is the executor memory granularity.
	memoryStepGB = 0.5

	DefaultMaxCandidates = 5000
	DefaultSearchWorkers = 4
)

// RecommendationSearch ranks catalog-derived alternatives to a current configuration
type RecommendationSearch struct {
	packer        *PackingCalculator
	coster        *CostModel
	maxCandidates int
	workers       int
}

// NewRecommendationSearch creates a search bounded to maxCandidates evaluations
// spread across workers goroutines. Non-positive values use the defaults.
func NewRecommendationSearch(maxCandidates, workers int) *RecommendationSearch {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	if workers <= 0 {
		workers = DefaultSearchWorkers
	}
	return &RecommendationSearch{
		packer:        NewPackingCalculator(),
		coster:        NewCostModel(),
		maxCandidates: maxCandidates,
		workers:       workers,
	}
}

type evaluation struct {
	candidate models.Candidate
	packing   models.PackingResult
	cost      models.CostResult
	feasible  bool
}

// Recommend returns the best feasible candidate, or nil when the snapshot is
// empty or nothing satisfies the hard constraints. The snapshot is not modified.
func (s *RecommendationSearch) Recommend(current models.ClusterInput, snapshot []models.CatalogEntry, region string) *models.Recommendation {
	if len(snapshot) == 0 {
		return nil
	}

	candidates := s.enumerate(current, snapshot, region)
	if len(candidates) == 0 {
		return nil
	}

	results := make([]evaluation, len(candidates))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range candidates {
		g.Go(func() error {
			results[i] = s.evaluate(current, candidates[i])
			return nil
		})
	}
	// evaluate never fails; Wait only joins the workers.
	_ = g.Wait()

	var best *evaluation
	feasible := 0
	for i := range results {
		if !results[i].feasible {
			continue
		}
		feasible++
		if best == nil || ranksBefore(results[i], *best) {
			best = &results[i]
		}
	}
	if best == nil {
		return nil
	}

	currentPacking := s.packer.Pack(current.Node, current.Executor, current.Reserve, current.Workload)
	currentCost := s.coster.Cost(current.Node, currentPacking, current.Workload, current.Assumptions)

	return &models.Recommendation{
		Candidate:                  best.candidate,
		Packing:                    best.packing,
		Cost:                       best.cost,
		SavingsVsCurrentMonthlyUSD: currentCost.MonthlyCostUSD - best.cost.MonthlyCostUSD,
		CandidatesEvaluated:        len(candidates),
		CandidatesFeasible:         feasible,
	}
}

// enumerate builds the candidate grid in a stable order, stopping at maxCandidates.
// Entries without a price or whose node count breaks autoscale bounds are skipped.
func (s *RecommendationSearch) enumerate(current models.ClusterInput, snapshot []models.CatalogEntry, region string) []models.Candidate {
	entries := slices.Clone(snapshot)
	slices.SortFunc(entries, func(a, b models.CatalogEntry) int {
		return cmp.Or(cmp.Compare(a.ProviderID, b.ProviderID), cmp.Compare(a.InstanceID, b.InstanceID))
	})

	var out []models.Candidate
	for _, entry := range entries {
		price, ok := entry.HourlyUSD(region)
		if !ok || entry.Cores <= 0 || entry.MemoryGB <= 0 {
			continue
		}

		count := preservedNodeCount(current.Node, entry.MemoryGB)
		if !withinAutoscale(count, current.Workload) {
			continue
		}

		node := models.NodeShape{
			Cores:         entry.Cores,
			MemoryGB:      entry.MemoryGB,
			HourlyCostUSD: price,
			Count:         count,
		}
		for _, exec := range executorGrid(node, current.Reserve, current.Workload) {
			if len(out) >= s.maxCandidates {
				return out
			}
			out = append(out, models.Candidate{
				ProviderID: entry.ProviderID,
				InstanceID: entry.InstanceID,
				Region:     region,
				Node:       node,
				Executor:   exec,
			})
		}
	}
	return out
}

func (s *RecommendationSearch) evaluate(current models.ClusterInput, c models.Candidate) evaluation {
	packing := s.packer.Pack(c.Node, c.Executor, current.Reserve, current.Workload)
	if packing.ExecutorsPerNode == 0 {
		return evaluation{candidate: c}
	}
	if peak, ok := current.Workload.PeakExecutorMemoryGB.Get(); ok && c.Executor.MemoryGB < peak {
		return evaluation{candidate: c}
	}
	if !withinAutoscale(c.Node.Count, current.Workload) {
		return evaluation{candidate: c}
	}

	return evaluation{
		candidate: c,
		packing:   packing,
		cost:      s.coster.Cost(c.Node, packing, current.Workload, current.Assumptions),
		feasible:  true,
	}
}

// ranksBefore orders by monthly cost ascending, efficiency descending, then
// instance id, executor cores, and executor memory.
func ranksBefore(a, b evaluation) bool {
	return cmp.Or(
		cmp.Compare(a.cost.MonthlyCostUSD, b.cost.MonthlyCostUSD),
		cmp.Compare(b.packing.EfficiencyScore, a.packing.EfficiencyScore),
		cmp.Compare(a.candidate.ProviderID, b.candidate.ProviderID),
		cmp.Compare(a.candidate.InstanceID, b.candidate.InstanceID),
		cmp.Compare(a.candidate.Executor.Cores, b.candidate.Executor.Cores),
		cmp.Compare(a.candidate.Executor.MemoryGB, b.candidate.Executor.MemoryGB),
	) < 0
}

// preservedNodeCount keeps total cluster memory roughly constant on the new shape.
func preservedNodeCount(current models.NodeShape, memoryGB float64) int {
	total := float64(current.Count) * current.MemoryGB
	return max(1, int(math.Ceil(total/memoryGB)))
}

func withinAutoscale(count int, workload models.WorkloadProfile) bool {
	if lo, ok := workload.AutoscaleMinNodes.Get(); ok && count < lo {
		return false
	}
	if hi, ok := workload.AutoscaleMaxNodes.Get(); ok && count > hi {
		return false
	}
	return true
}

// executorGrid derives executor shapes for a candidate node: each capped core
// preset crossed with executors-per-node targets 1..12, memory split evenly
// and rounded down to the step, then raised to cover observed peak memory.
func executorGrid(node models.NodeShape, reserve models.ReserveHeadroom, workload models.WorkloadProfile) []models.ExecutorShape {
	effCores := node.Cores - reserve.ReserveCores
	effMem := node.MemoryGB - reserve.ReserveMemoryGB
	if effCores <= 0 || effMem <= 0 {
		return nil
	}

	peak, hasPeak := workload.PeakExecutorMemoryGB.Get()

	var shapes []models.ExecutorShape
	seen := make(map[models.ExecutorShape]bool)
	for _, preset := range executorCorePresets {
		cores := min(preset, effCores)
		limit := min(effCores/cores, maxExecutorsPerNode)
		for n := 1; n <= limit; n++ {
			mem := roundDownStep(effMem / float64(n))
			if hasPeak && mem < peak {
				mem = roundUpStep(peak)
			}
			if mem <= 0 {
				continue
			}
			shape := models.ExecutorShape{Cores: cores, MemoryGB: mem}
			if seen[shape] {
				continue
			}
			seen[shape] = true
			shapes = append(shapes, shape)
		}
	}
	return shapes
}

func roundDownStep(gb float64) float64 {
	return math.Floor(gb/memoryStepGB) * memoryStepGB
}

func roundUpStep(gb float64) float64 {
	return math.Ceil(gb/memoryStepGB) * memoryStepGB
}
