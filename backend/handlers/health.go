// ABOUTME: HTTP handlers for health and metrics endpoints
// ABOUTME: Reports catalog source health and result cache size

package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

var metricsHandler = promhttp.Handler()

// Health returns API health status including catalog source and cache status.
// Unhealthy catalog sources degrade the status but never fail the check.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:    "ok",
		Catalog:   map[string]bool{},
		CacheSize: h.analyzer.CacheSize(),
	}
	if h.cfg != nil {
		resp.Version = h.cfg.Version
	}

	if reporter, ok := h.catalog.(interface{ Health() map[string]bool }); ok {
		resp.Catalog = reporter.Health()
	} else if h.catalog != nil {
		resp.Catalog[h.catalog.Name()] = true
	}
	for _, healthy := range resp.Catalog {
		if !healthy {
			resp.Status = "degraded"
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// Metrics serves Prometheus metrics.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	metricsHandler.ServeHTTP(w, r)
}
