// ABOUTME: Caching decorator for catalog sources
// ABOUTME: Repeated lookups within the TTL share one snapshot and one in-flight fetch

package catalog

import (
	"context"
	"fmt"

	"github.com/markalston/cluster-efficiency-analyzer/backend/cache"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// Cached wraps a Source with a TTL cache. Errors are never cached.
type Cached struct {
	src   Source
	cache *cache.Cache
}

// NewCached wraps src using c for storage.
func NewCached(src Source, c *cache.Cache) *Cached {
	return &Cached{src: src, cache: c}
}

func (c *Cached) Name() string { return c.src.Name() }

func (c *Cached) LookupCatalog(ctx context.Context, providerID, region string) ([]models.CatalogEntry, error) {
	key := fmt.Sprintf("lookup|%s|%s", providerID, region)
	v, _, err := c.cache.GetOrCompute(ctx, key, func() (any, error) {
		return c.src.LookupCatalog(context.WithoutCancel(ctx), providerID, region)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.CatalogEntry), nil
}

func (c *Cached) Providers(ctx context.Context) ([]models.Provider, error) {
	v, _, err := c.cache.GetOrCompute(ctx, "providers", func() (any, error) {
		return c.src.Providers(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Provider), nil
}

func (c *Cached) Regions(ctx context.Context, providerID string) ([]models.Region, error) {
	v, _, err := c.cache.GetOrCompute(ctx, "regions|"+providerID, func() (any, error) {
		return c.src.Regions(context.WithoutCancel(ctx), providerID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Region), nil
}

// Health passes through the wrapped source's health when it reports one.
func (c *Cached) Health() map[string]bool {
	if h, ok := c.src.(interface{ Health() map[string]bool }); ok {
		return h.Health()
	}
	return map[string]bool{c.src.Name(): true}
}
