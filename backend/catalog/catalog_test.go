package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/markalston/cluster-efficiency-analyzer/backend/cache"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// stubSource serves one provider and counts lookups.
type stubSource struct {
	name     string
	provider string
	entries  []models.CatalogEntry
	err      error
	lookups  atomic.Int32
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) LookupCatalog(_ context.Context, providerID, _ string) ([]models.CatalogEntry, error) {
	s.lookups.Add(1)
	if providerID != s.provider {
		return nil, ErrProviderNotFound
	}
	return s.entries, s.err
}

func (s *stubSource) Providers(_ context.Context) ([]models.Provider, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []models.Provider{{ID: s.provider, Name: s.name}}, nil
}

func (s *stubSource) Regions(_ context.Context, providerID string) ([]models.Region, error) {
	if providerID != s.provider {
		return nil, ErrProviderNotFound
	}
	return []models.Region{{ID: "r1", Name: "Region 1"}}, s.err
}

func TestChain_LookupFallsThrough(t *testing.T) {
	first := &stubSource{name: "first", provider: "aws", entries: []models.CatalogEntry{{InstanceID: "a"}}}
	second := &stubSource{name: "second", provider: "gcp", entries: []models.CatalogEntry{{InstanceID: "g"}}}
	chain := NewChain(first, nil, second)

	entries, err := chain.LookupCatalog(context.Background(), "gcp", "")
	if err != nil {
		t.Fatalf("LookupCatalog() error = %v", err)
	}
	if len(entries) != 1 || entries[0].InstanceID != "g" {
		t.Errorf("Expected gcp entry, got %+v", entries)
	}

	_, err = chain.LookupCatalog(context.Background(), "oracle", "")
	if !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("Expected ErrProviderNotFound, got %v", err)
	}
}

func TestChain_SourceFailureMarksUnhealthy(t *testing.T) {
	boom := errors.New("vcenter down")
	broken := &stubSource{name: "vsphere", provider: "vsphere", err: boom}
	chain := NewChain(broken)

	_, err := chain.LookupCatalog(context.Background(), "vsphere", "")
	if !errors.Is(err, boom) {
		t.Fatalf("Expected wrapped source error, got %v", err)
	}
	if chain.Health()["vsphere"] {
		t.Error("Expected vsphere to be reported unhealthy")
	}
}

func TestChain_ProvidersMergeAndSkipFailures(t *testing.T) {
	chain := NewChain(
		&stubSource{name: "files", provider: "gcp"},
		&stubSource{name: "broken", provider: "x", err: errors.New("down")},
		&stubSource{name: "dup", provider: "gcp"},
		&stubSource{name: "more", provider: "aws"},
	)

	providers, err := chain.Providers(context.Background())
	if err != nil {
		t.Fatalf("Providers() error = %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("Expected 2 providers, got %+v", providers)
	}
	if providers[0].ID != "aws" || providers[1].ID != "gcp" || providers[1].Name != "files" {
		t.Errorf("Unexpected providers: %+v", providers)
	}
}

func TestChain_Regions(t *testing.T) {
	chain := NewChain(&stubSource{name: "files", provider: "gcp"})

	regions, err := chain.Regions(context.Background(), "gcp")
	if err != nil || len(regions) != 1 {
		t.Fatalf("Regions() = %+v, %v", regions, err)
	}
	if _, err := chain.Regions(context.Background(), "aws"); !errors.Is(err, ErrProviderNotFound) {
		t.Errorf("Expected ErrProviderNotFound, got %v", err)
	}
}

func TestCached_SharesSnapshot(t *testing.T) {
	src := &stubSource{name: "files", provider: "aws", entries: []models.CatalogEntry{{InstanceID: "a"}}}
	c := cache.New(time.Minute, 100)
	defer c.Close()
	cached := NewCached(src, c)

	for i := 0; i < 3; i++ {
		entries, err := cached.LookupCatalog(context.Background(), "aws", "us-east-1")
		if err != nil || len(entries) != 1 {
			t.Fatalf("LookupCatalog() = %+v, %v", entries, err)
		}
	}
	if got := src.lookups.Load(); got != 1 {
		t.Errorf("Expected 1 source lookup, got %d", got)
	}

	if _, err := cached.LookupCatalog(context.Background(), "aws", "eu-west-1"); err != nil {
		t.Fatalf("LookupCatalog() error = %v", err)
	}
	if got := src.lookups.Load(); got != 2 {
		t.Errorf("Expected a separate lookup per region, got %d", got)
	}
}

func TestCached_ErrorsNotCached(t *testing.T) {
	src := &stubSource{name: "files", provider: "aws"}
	c := cache.New(time.Minute, 100)
	defer c.Close()
	cached := NewCached(src, c)

	for i := 0; i < 2; i++ {
		if _, err := cached.LookupCatalog(context.Background(), "gcp", ""); !errors.Is(err, ErrProviderNotFound) {
			t.Fatalf("Expected ErrProviderNotFound, got %v", err)
		}
	}
	if got := src.lookups.Load(); got != 2 {
		t.Errorf("Expected failed lookups to be retried, got %d calls", got)
	}
}
