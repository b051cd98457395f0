// ABOUTME: Tests for the analysis orchestrator
// ABOUTME: Covers validation gating, result caching, and catalog failure degradation

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markalston/cluster-efficiency-analyzer/backend/cache"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

type stubLookup struct {
	entries []models.CatalogEntry
	err     error
	calls   atomic.Int32
}

func (s *stubLookup) LookupCatalog(_ context.Context, _, _ string) ([]models.CatalogEntry, error) {
	s.calls.Add(1)
	return s.entries, s.err
}

func newTestAnalyzer(t *testing.T, lookup *stubLookup) *Analyzer {
	t.Helper()
	c := cache.New(time.Minute, 100)
	t.Cleanup(c.Close)
	return NewAnalyzer(lookup, c, NewRecommendationSearch(0, 2))
}

func TestAnalyzer_PackRejectsInvalid(t *testing.T) {
	a := NewAnalyzer(nil, nil, nil)
	req := validRequest()
	req.Executor.Cores = 0

	_, err := a.Pack(req)
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
}

func TestAnalyzer_PackAndCost(t *testing.T) {
	a := NewAnalyzer(nil, nil, nil)

	pack, err := a.Pack(validRequest())
	if err != nil {
		t.Fatalf("Pack() error = %v", err)
	}
	if pack.Packing.ExecutorsPerNode != 3 || pack.Bottleneck.ConstrainingResource == "" {
		t.Errorf("Unexpected pack response: %+v", pack)
	}

	cost, err := a.Cost(validRequest())
	if err != nil {
		t.Fatalf("Cost() error = %v", err)
	}
	if cost.Cost.MonthlyCostUSD != 5840.0 {
		t.Errorf("Expected 5840.0, got %v", cost.Cost.MonthlyCostUSD)
	}
}

func TestAnalyzer_RecommendRequiresCloud(t *testing.T) {
	a := newTestAnalyzer(t, &stubLookup{entries: testSnapshot()})

	_, err := a.Recommend(context.Background(), validRequest())
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if verr.Fields[0].Field != "cloud" {
		t.Errorf("Expected cloud field error, got %+v", verr.Fields)
	}
}

func TestAnalyzer_RecommendCatalogFailure(t *testing.T) {
	a := newTestAnalyzer(t, &stubLookup{err: errors.New("catalog unavailable")})
	req := validRequest()
	req.Cloud = "aws"

	resp, err := a.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Expected catalog failure to degrade, got %v", err)
	}
	if resp.Recommendation != nil || resp.Message != NoRecommendationMessage {
		t.Errorf("Expected no recommendation with message, got %+v", resp)
	}
}

func TestAnalyzer_Recommend(t *testing.T) {
	a := newTestAnalyzer(t, &stubLookup{entries: testSnapshot()})
	req := validRequest()
	req.Cloud = "test"

	resp, err := a.Recommend(context.Background(), req)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if resp.Recommendation == nil || resp.Recommendation.Candidate.InstanceID != "small" {
		t.Errorf("Expected small recommendation, got %+v", resp.Recommendation)
	}
	if resp.Message != "" {
		t.Errorf("Expected no message, got %q", resp.Message)
	}
}

func TestAnalyzer_AnalyzeCachesByFingerprint(t *testing.T) {
	lookup := &stubLookup{entries: testSnapshot()}
	a := newTestAnalyzer(t, lookup)
	req := validRequest()
	req.Cloud = "test"
	req.Assumptions.ForecastMonths = models.Some(3)

	first, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if first.Metadata.Cached {
		t.Error("First analysis should not be cached")
	}
	if first.Recommendation == nil {
		t.Fatal("Expected a recommendation")
	}
	if len(first.ForecastComparison) != 3 {
		t.Errorf("Expected 3 months of forecast comparison, got %d", len(first.ForecastComparison))
	}
	if first.RiskNotes == nil {
		t.Error("Risk notes should never be nil")
	}

	second, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if !second.Metadata.Cached {
		t.Error("Second analysis should be served from cache")
	}
	if second.Metadata.Fingerprint != first.Metadata.Fingerprint {
		t.Errorf("Fingerprints differ: %s vs %s", first.Metadata.Fingerprint, second.Metadata.Fingerprint)
	}
	if lookup.calls.Load() != 1 {
		t.Errorf("Expected one catalog lookup, got %d", lookup.calls.Load())
	}
	if a.CacheSize() != 1 {
		t.Errorf("Expected one cached analysis, got %d", a.CacheSize())
	}

	req.Node.Count = 12
	third, _ := a.Analyze(context.Background(), req)
	if third.Metadata.Cached {
		t.Error("A different request must not hit the cache")
	}
}

func TestAnalyzer_AnalyzeWithoutCloud(t *testing.T) {
	lookup := &stubLookup{entries: testSnapshot()}
	a := NewAnalyzer(lookup, nil, nil)

	resp, err := a.Analyze(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if resp.Recommendation != nil {
		t.Error("Expected no recommendation without a cloud")
	}
	if resp.ExecutorTuning == nil || resp.ExecutorTuning.Executor.MemoryGB < minSafeExecutorMemoryGB {
		t.Errorf("Expected an executor tuning without a cloud, got %+v", resp.ExecutorTuning)
	}
	if lookup.calls.Load() != 0 {
		t.Error("Catalog should not be consulted without a cloud")
	}
	if resp.Metadata.Fingerprint == "" || resp.Metadata.Cached {
		t.Errorf("Unexpected metadata: %+v", resp.Metadata)
	}
	if resp.Cost.MonthlyCostUSD != 5840.0 {
		t.Errorf("Expected 5840.0, got %v", resp.Cost.MonthlyCostUSD)
	}
}

func TestAnalyzer_AnalyzeRejectsInvalid(t *testing.T) {
	a := newTestAnalyzer(t, &stubLookup{})
	req := validRequest()
	req.Node.MemoryGB = -1

	if _, err := a.Analyze(context.Background(), req); err == nil {
		t.Error("Expected validation error")
	}
	if a.CacheSize() != 0 {
		t.Error("Invalid requests must not be cached")
	}
}

func TestAnalyzer_AnalyzeTunesExecutorWithoutCatalog(t *testing.T) {
	a := NewAnalyzer(nil, nil, nil)
	req := validRequest()
	req.Executor = models.ExecutorShape{Cores: 5, MemoryGB: 7}

	resp, err := a.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if resp.Packing.EfficiencyScore != 63 {
		t.Errorf("EfficiencyScore = %d, want 63", resp.Packing.EfficiencyScore)
	}
	if resp.Recommendation != nil {
		t.Errorf("Expected no catalog recommendation, got %+v", resp.Recommendation)
	}
	if !resp.ExecutorTuning.Improves() || resp.ExecutorTuning.Packing.EfficiencyScore <= 63 {
		t.Errorf("Expected an improving tuning, got %+v", resp.ExecutorTuning)
	}
}
