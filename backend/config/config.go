// ABOUTME: Configuration loader for backend service
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port               string
	Version            string
	CacheTTL           int           // seconds, analysis result cache
	CacheMaxEntries    int           // 0 = unbounded
	AnalyzeTimeout     time.Duration // per analyze request (default 10s)
	CORSAllowedOrigins []string      // allowed CORS origins (empty = block all cross-origin)

	// Rate Limiting
	RateLimitEnabled bool // Enable rate limiting (default: true)
	RateLimitCompute int  // Requests per minute per client for pack/cost/recommend/analyze (default: 60)

	// Recommendation search
	MaxCandidates int
	SearchWorkers int

	// Catalog
	CatalogDir      string // provider documents; empty = embedded defaults
	CatalogURL      string // another analyzer's /api/v1/catalog (optional)
	CatalogAllProxy string // ssh+socks5://user@host:port?private-key=path
	CatalogCacheTTL int    // seconds

	// AWS Price List (optional)
	AWSPricingEnabled bool
	AWSPricingRegions []string

	// vSphere (optional)
	VSphereHost              string
	VSphereUsername          string
	VSpherePassword          string
	VSphereDatacenter        string
	VSphereInsecure          bool
	VSphereCoreHourlyUSD     float64
	VSphereMemoryGBHourlyUSD float64
}

// VSphereConfigured returns true if vSphere credentials are set
func (c *Config) VSphereConfigured() bool {
	return c.VSphereHost != "" && c.VSphereUsername != "" && c.VSpherePassword != "" && c.VSphereDatacenter != ""
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		Version:            getEnv("VERSION", "dev"),
		CacheTTL:           getEnvInt("CACHE_TTL", 300),
		CacheMaxEntries:    getEnvInt("CACHE_MAX_ENTRIES", 1000),
		AnalyzeTimeout:     getEnvDuration("ANALYZE_TIMEOUT", 10*time.Second),
		CORSAllowedOrigins: getEnvStringList("CORS_ALLOWED_ORIGINS"),

		RateLimitEnabled: getEnvBool("RATE_LIMIT_ENABLED", true),
		RateLimitCompute: getEnvInt("RATE_LIMIT_COMPUTE", 60),

		MaxCandidates: getEnvInt("MAX_CANDIDATES", 5000),
		SearchWorkers: getEnvInt("SEARCH_WORKERS", 4),

		CatalogDir:      os.Getenv("CATALOG_DIR"),
		CatalogURL:      ensureScheme(os.Getenv("CATALOG_URL")),
		CatalogAllProxy: os.Getenv("CATALOG_ALL_PROXY"),
		CatalogCacheTTL: getEnvInt("CATALOG_CACHE_TTL", 3600),

		AWSPricingEnabled: getEnvBool("AWS_PRICING_ENABLED", false),
		AWSPricingRegions: getEnvStringList("AWS_PRICING_REGIONS"),

		VSphereHost:              os.Getenv("VSPHERE_HOST"),
		VSphereUsername:          os.Getenv("VSPHERE_USERNAME"),
		VSpherePassword:          os.Getenv("VSPHERE_PASSWORD"),
		VSphereDatacenter:        os.Getenv("VSPHERE_DATACENTER"),
		VSphereInsecure:          getEnvBool("VSPHERE_INSECURE", false),
		VSphereCoreHourlyUSD:     getEnvFloat("VSPHERE_CORE_HOURLY_USD", 0.03),
		VSphereMemoryGBHourlyUSD: getEnvFloat("VSPHERE_MEMORY_GB_HOURLY_USD", 0.004),
	}

	for _, bound := range []struct {
		name     string
		value    int
		min, max int
	}{
		{"CACHE_TTL", cfg.CacheTTL, 1, 86400},
		{"CACHE_MAX_ENTRIES", cfg.CacheMaxEntries, 0, 1000000},
		{"CATALOG_CACHE_TTL", cfg.CatalogCacheTTL, 1, 604800},
		{"RATE_LIMIT_COMPUTE", cfg.RateLimitCompute, 1, 10000},
		{"MAX_CANDIDATES", cfg.MaxCandidates, 1, 100000},
		{"SEARCH_WORKERS", cfg.SearchWorkers, 1, 64},
	} {
		if bound.value < bound.min || bound.value > bound.max {
			return nil, fmt.Errorf("%s must be between %d and %d, got %d", bound.name, bound.min, bound.max, bound.value)
		}
	}

	if cfg.AnalyzeTimeout <= 0 {
		return nil, fmt.Errorf("ANALYZE_TIMEOUT must be positive, got %s", cfg.AnalyzeTimeout)
	}
	if cfg.AWSPricingEnabled && len(cfg.AWSPricingRegions) == 0 {
		return nil, fmt.Errorf("AWS_PRICING_REGIONS is required when AWS_PRICING_ENABLED is set")
	}
	if cfg.VSphereHost != "" && !cfg.VSphereConfigured() {
		return nil, fmt.Errorf("VSPHERE_HOST requires VSPHERE_USERNAME, VSPHERE_PASSWORD, and VSPHERE_DATACENTER")
	}
	if cfg.VSphereCoreHourlyUSD < 0 || cfg.VSphereMemoryGBHourlyUSD < 0 {
		return nil, fmt.Errorf("vSphere hourly rates must not be negative")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("30s") or bare seconds ("30").
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
