// ABOUTME: Orchestrates packing, cost, tuning, recommendation, and risk notes for one request
// ABOUTME: Caches full analyses by request fingerprint; catalog failures degrade to no recommendation

package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/markalston/cluster-efficiency-analyzer/backend/cache"
	"github.com/markalston/cluster-efficiency-analyzer/backend/catalog"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// NoRecommendationMessage explains a nil recommendation to API callers.
const NoRecommendationMessage = "no recommendation available"

// Analyzer wires the engine components to a catalog and result cache
type Analyzer struct {
	lookup catalog.Lookup
	cache  *cache.Cache
	packer *PackingCalculator
	coster *CostModel
	search *RecommendationSearch
	risks  *RiskAnnotator
	now    func() time.Time
}

// NewAnalyzer creates an analyzer. A nil cache disables result caching; a nil
// lookup disables recommendations.
func NewAnalyzer(lookup catalog.Lookup, resultCache *cache.Cache, search *RecommendationSearch) *Analyzer {
	if search == nil {
		search = NewRecommendationSearch(DefaultMaxCandidates, DefaultSearchWorkers)
	}
	return &Analyzer{
		lookup: lookup,
		cache:  resultCache,
		packer: NewPackingCalculator(),
		coster: NewCostModel(),
		search: search,
		risks:  NewRiskAnnotator(),
		now:    time.Now,
	}
}

// Pack validates the request and returns the packing diagnosis.
func (a *Analyzer) Pack(req models.AnalyzeRequest) (models.PackResponse, error) {
	if err := ValidateAnalyzeRequest(req); err != nil {
		return models.PackResponse{}, err
	}
	packing := a.packer.Pack(req.Node, req.Executor, req.Reserve, req.Workload)
	return models.PackResponse{
		Packing:    packing,
		Bottleneck: models.AnalyzeBottleneck(req.Node, req.Reserve, packing),
	}, nil
}

// Cost validates the request and returns packing plus monthly cost.
func (a *Analyzer) Cost(req models.AnalyzeRequest) (models.CostResponse, error) {
	if err := ValidateAnalyzeRequest(req); err != nil {
		return models.CostResponse{}, err
	}
	packing := a.packer.Pack(req.Node, req.Executor, req.Reserve, req.Workload)
	return models.CostResponse{
		Packing: packing,
		Cost:    a.coster.Cost(req.Node, packing, req.Workload, req.Assumptions),
	}, nil
}

// Recommend searches the requested cloud's catalog. A missing or failing
// catalog yields a nil recommendation, not an error.
func (a *Analyzer) Recommend(ctx context.Context, req models.AnalyzeRequest) (models.RecommendResponse, error) {
	if err := ValidateAnalyzeRequest(req); err != nil {
		return models.RecommendResponse{}, err
	}
	if req.Cloud == "" {
		verr := &models.ValidationError{}
		verr.Add("cloud", "is required")
		return models.RecommendResponse{}, verr
	}

	rec := a.recommend(ctx, req)
	resp := models.RecommendResponse{Recommendation: rec}
	if rec == nil {
		resp.Message = NoRecommendationMessage
	}
	return resp, nil
}

// Analyze returns the full analysis, serving identical requests from the cache.
// ctx bounds how long the caller waits; a computation already in flight keeps
// running and fills the cache for later callers.
func (a *Analyzer) Analyze(ctx context.Context, req models.AnalyzeRequest) (models.AnalyzeResponse, error) {
	if err := ValidateAnalyzeRequest(req); err != nil {
		return models.AnalyzeResponse{}, err
	}

	key, err := Fingerprint(req)
	if err != nil {
		return models.AnalyzeResponse{}, err
	}

	if a.cache == nil {
		resp := a.compute(ctx, req)
		resp.Metadata.Fingerprint = key
		return resp, nil
	}

	detached := context.WithoutCancel(ctx)
	val, cached, err := a.cache.GetOrCompute(ctx, key, func() (any, error) {
		return a.compute(detached, req), nil
	})
	if err != nil {
		return models.AnalyzeResponse{}, fmt.Errorf("analyzing request %s: %w", key, err)
	}

	if cached {
		analyzeCacheResults.WithLabelValues("hit").Inc()
	} else {
		analyzeCacheResults.WithLabelValues("miss").Inc()
	}

	resp, ok := val.(models.AnalyzeResponse)
	if !ok {
		return models.AnalyzeResponse{}, errors.New("unexpected cached value type")
	}
	resp.Metadata.Fingerprint = key
	resp.Metadata.Cached = cached
	return resp, nil
}

// CacheSize reports the number of cached analyses.
func (a *Analyzer) CacheSize() int {
	if a.cache == nil {
		return 0
	}
	return a.cache.Len()
}

func (a *Analyzer) compute(ctx context.Context, req models.AnalyzeRequest) models.AnalyzeResponse {
	start := a.now()
	defer func() { analyzeDuration.Observe(time.Since(start).Seconds()) }()

	packing := a.packer.Pack(req.Node, req.Executor, req.Reserve, req.Workload)
	cost := a.coster.Cost(req.Node, packing, req.Workload, req.Assumptions)

	resp := models.AnalyzeResponse{
		Packing:    packing,
		Bottleneck: models.AnalyzeBottleneck(req.Node, req.Reserve, packing),
		Cost:       cost,
		RiskNotes:  a.risks.Risks(req.ClusterInput, packing, cost),
		Metadata:   models.AnalyzeMetadata{Timestamp: start.UTC()},
	}

	resp.ExecutorTuning = a.search.TuneExecutor(req.ClusterInput)
	if req.Cloud != "" {
		resp.Recommendation = a.recommend(ctx, req)
	}
	if resp.Recommendation != nil {
		resp.ForecastComparison = CompareForecasts(cost.Forecast, resp.Recommendation.Cost.Forecast)
	}

	slog.Debug("Analysis computed",
		"executors_per_node", packing.ExecutorsPerNode,
		"efficiency_score", packing.EfficiencyScore,
		"has_recommendation", resp.Recommendation != nil,
		"tuning_improves", resp.ExecutorTuning.Improves(),
		"risk_notes", len(resp.RiskNotes),
	)
	return resp
}

func (a *Analyzer) recommend(ctx context.Context, req models.AnalyzeRequest) *models.Recommendation {
	snapshot := a.snapshot(ctx, req.Cloud, req.Region)
	rec := a.search.Recommend(req.ClusterInput, snapshot, req.Region)

	switch {
	case rec == nil:
		recommendOutcomes.WithLabelValues("none").Inc()
	case rec.Improves():
		recommendOutcomes.WithLabelValues("savings").Inc()
	default:
		recommendOutcomes.WithLabelValues("no_savings").Inc()
	}
	if rec != nil {
		candidatesEvaluated.Add(float64(rec.CandidatesEvaluated))
	}
	return rec
}

// snapshot materializes the catalog for one search, treating any failure as empty.
func (a *Analyzer) snapshot(ctx context.Context, cloud, region string) []models.CatalogEntry {
	if a.lookup == nil {
		return nil
	}
	entries, err := a.lookup.LookupCatalog(ctx, cloud, region)
	if err != nil {
		catalogFailures.Inc()
		slog.Warn("Catalog lookup failed, skipping recommendation",
			"cloud", sanitizeForLog(cloud), "region", sanitizeForLog(region), "error", err)
		return nil
	}
	return entries
}
