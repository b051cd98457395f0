// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds full API servers wired the way main.go wires them

package e2e

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/markalston/cluster-efficiency-analyzer/backend/cache"
	"github.com/markalston/cluster-efficiency-analyzer/backend/catalog"
	"github.com/markalston/cluster-efficiency-analyzer/backend/config"
	"github.com/markalston/cluster-efficiency-analyzer/backend/handlers"
	"github.com/markalston/cluster-efficiency-analyzer/backend/middleware"
	"github.com/markalston/cluster-efficiency-analyzer/backend/services"
)

const onPremCatalog = `
id: onprem
name: On-prem pool
regions:
  - id: dc1
    name: Datacenter 1
instance_types:
  - id: std-16
    cores: 16
    memory_gb: 64
    hourly_usd: 0.50
`

const standardRequest = `{
	"node": {"cores": 16, "memory_gb": 64, "hourly_cost_usd": 0.80, "count": 10},
	"executor": {"cores": 4, "memory_gb": 16},
	"reserve": {"reserve_cores": 1, "reserve_memory_gb": 4},
	"workload": {"avg_runtime_minutes": 30, "jobs_per_day": 48}
}`

// withCloud adds cloud and region to the standard request
func withCloud(cloud, region string) string {
	return `{"cloud": "` + cloud + `", "region": "` + region + `",` + standardRequest[1:]
}

// withTestEnv sets environment variables for config.Load, restoring them
// when the test ends.
func withTestEnv(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		t.Setenv(key, value)
	}
}

// writeCatalogDir writes provider documents into a temp directory
func writeCatalogDir(t *testing.T, docs map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("writing %s: %v", name, err)
		}
	}
	return dir
}

// newServer builds the catalog chain, caches, engine, and mux from cfg.
func newServer(t *testing.T, cfg *config.Config) *httptest.Server {
	t.Helper()

	fileSrc, err := catalog.NewFileSource(cfg.CatalogDir)
	if err != nil {
		t.Fatalf("NewFileSource() error = %v", err)
	}
	sources := []catalog.Source{fileSrc}
	if cfg.CatalogURL != "" {
		sources = append(sources, catalog.NewRemoteSource(cfg.CatalogURL, ""))
	}

	catalogCache := cache.New(time.Duration(cfg.CatalogCacheTTL)*time.Second, 0)
	resultCache := cache.New(time.Duration(cfg.CacheTTL)*time.Second, cfg.CacheMaxEntries)
	t.Cleanup(catalogCache.Close)
	t.Cleanup(resultCache.Close)

	src := catalog.NewCached(catalog.NewChain(sources...), catalogCache)
	analyzer := services.NewAnalyzer(src, resultCache, services.NewRecommendationSearch(cfg.MaxCandidates, cfg.SearchWorkers))
	h := handlers.NewHandler(cfg, analyzer, src)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimitCompute, time.Minute)
	}

	server := httptest.NewServer(h.NewServeMux(cfg.CORSAllowedOrigins, limiter))
	t.Cleanup(server.Close)
	return server
}

// loadConfig runs config.Load against vars
func loadConfig(t *testing.T, vars map[string]string) *config.Config {
	t.Helper()
	withTestEnv(t, vars)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}
