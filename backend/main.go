// ABOUTME: Entry point for the Cluster Efficiency Analyzer backend service
// ABOUTME: Provides HTTP API for executor packing, cost, and instance recommendations

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/cluster-efficiency-analyzer/backend/cache"
	"github.com/markalston/cluster-efficiency-analyzer/backend/catalog"
	"github.com/markalston/cluster-efficiency-analyzer/backend/config"
	"github.com/markalston/cluster-efficiency-analyzer/backend/handlers"
	"github.com/markalston/cluster-efficiency-analyzer/backend/logger"
	"github.com/markalston/cluster-efficiency-analyzer/backend/middleware"
	"github.com/markalston/cluster-efficiency-analyzer/backend/services"
)

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Cluster Efficiency Analyzer Backend", "version", cfg.Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Build the catalog chain
	fileSrc, err := catalog.NewFileSource(cfg.CatalogDir)
	if err != nil {
		slog.Error("Failed to load instance catalog", "dir", cfg.CatalogDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Catalog loaded", "source", fileSrc.Name())

	var sources []catalog.Source
	if cfg.AWSPricingEnabled {
		awsSrc, err := catalog.NewAWSPricingSource(ctx, fileSrc, cfg.AWSPricingRegions)
		if err != nil {
			slog.Warn("AWS pricing unavailable, using catalog prices", "error", err)
		} else {
			slog.Info("AWS pricing enabled", "regions", cfg.AWSPricingRegions)
			sources = append(sources, awsSrc)
		}
	}
	sources = append(sources, fileSrc)

	if cfg.CatalogURL != "" {
		slog.Info("Remote catalog configured", "url", cfg.CatalogURL, "proxied", cfg.CatalogAllProxy != "")
		sources = append(sources, catalog.NewRemoteSource(cfg.CatalogURL, cfg.CatalogAllProxy))
	}

	var vsphere *catalog.VSphereSource
	if cfg.VSphereConfigured() {
		slog.Info("vSphere configured", "host", cfg.VSphereHost, "datacenter", cfg.VSphereDatacenter)
		vsphere = catalog.NewVSphereSource(catalog.VSphereCredentials{
			Host:       cfg.VSphereHost,
			Username:   cfg.VSphereUsername,
			Password:   cfg.VSpherePassword,
			Datacenter: cfg.VSphereDatacenter,
			Insecure:   cfg.VSphereInsecure,
		}, catalog.VSpherePricing{
			CoreHourlyUSD:     cfg.VSphereCoreHourlyUSD,
			MemoryGBHourlyUSD: cfg.VSphereMemoryGBHourlyUSD,
		})
		if err := vsphere.Connect(ctx); err != nil {
			slog.Warn("vSphere connection failed, will retry on lookup", "error", err)
		}
		sources = append(sources, vsphere)
	} else {
		slog.Info("vSphere not configured, cloud catalogs only")
	}

	catalogCache := cache.New(time.Duration(cfg.CatalogCacheTTL)*time.Second, 0)
	defer catalogCache.Close()
	src := catalog.NewCached(catalog.NewChain(sources...), catalogCache)

	// Initialize result cache and engine
	cacheTTL := time.Duration(cfg.CacheTTL) * time.Second
	resultCache := cache.New(cacheTTL, cfg.CacheMaxEntries)
	defer resultCache.Close()
	slog.Info("Cache initialized", "ttl", cacheTTL, "max_entries", cfg.CacheMaxEntries)

	search := services.NewRecommendationSearch(cfg.MaxCandidates, cfg.SearchWorkers)
	analyzer := services.NewAnalyzer(src, resultCache, search)

	// Initialize handlers
	h := handlers.NewHandler(cfg, analyzer, src)

	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimitCompute, time.Minute)
		slog.Info("Rate limiting enabled", "compute_per_minute", cfg.RateLimitCompute)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.NewServeMux(cfg.CORSAllowedOrigins, limiter),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	if vsphere != nil {
		if err := vsphere.Disconnect(shutdownCtx); err != nil {
			slog.Warn("vSphere logout failed", "error", err)
		}
	}
}
