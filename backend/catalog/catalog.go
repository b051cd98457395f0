// ABOUTME: Read-only instance catalog lookup and source composition
// ABOUTME: Chains multiple sources so the first that knows a provider answers for it

package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// ErrProviderNotFound is returned when no source carries the requested provider.
var ErrProviderNotFound = errors.New("provider not found")

// Lookup returns the instance catalog for a provider, with prices for region
// where available. Results are read-only and repeatable within a process.
type Lookup interface {
	LookupCatalog(ctx context.Context, providerID, region string) ([]models.CatalogEntry, error)
}

// Source is a Lookup that can also enumerate providers and regions.
type Source interface {
	Lookup
	Name() string
	Providers(ctx context.Context) ([]models.Provider, error)
	Regions(ctx context.Context, providerID string) ([]models.Region, error)
}

// Chain consults sources in order. A source answering ErrProviderNotFound
// passes the request to the next one.
type Chain struct {
	sources []Source

	mu      sync.Mutex
	healthy map[string]bool
}

// NewChain creates a chain over the given sources, skipping nils.
func NewChain(sources ...Source) *Chain {
	c := &Chain{healthy: make(map[string]bool)}
	for _, s := range sources {
		if s == nil {
			continue
		}
		c.sources = append(c.sources, s)
		c.healthy[s.Name()] = true
	}
	return c
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) LookupCatalog(ctx context.Context, providerID, region string) ([]models.CatalogEntry, error) {
	for _, s := range c.sources {
		entries, err := s.LookupCatalog(ctx, providerID, region)
		if errors.Is(err, ErrProviderNotFound) {
			continue
		}
		c.record(s, err)
		if err != nil {
			return nil, fmt.Errorf("%s catalog: %w", s.Name(), err)
		}
		return entries, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
}

// Providers merges every source's providers; earlier sources win on id clashes.
// A failing source is logged and skipped.
func (c *Chain) Providers(ctx context.Context) ([]models.Provider, error) {
	seen := make(map[string]bool)
	var out []models.Provider
	for _, s := range c.sources {
		providers, err := s.Providers(ctx)
		c.record(s, err)
		if err != nil {
			slog.Warn("Catalog source unavailable", "source", s.Name(), "error", err)
			continue
		}
		for _, p := range providers {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (c *Chain) Regions(ctx context.Context, providerID string) ([]models.Region, error) {
	for _, s := range c.sources {
		regions, err := s.Regions(ctx, providerID)
		if errors.Is(err, ErrProviderNotFound) {
			continue
		}
		c.record(s, err)
		if err != nil {
			return nil, fmt.Errorf("%s catalog: %w", s.Name(), err)
		}
		return regions, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrProviderNotFound, providerID)
}

// Health reports whether each source's most recent call succeeded.
func (c *Chain) Health() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]bool, len(c.healthy))
	for k, v := range c.healthy {
		out[k] = v
	}
	return out
}

func (c *Chain) record(s Source, err error) {
	c.mu.Lock()
	c.healthy[s.Name()] = err == nil
	c.mu.Unlock()
}
