// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes and mounts them on a ServeMux with middleware

package handlers

import (
	"net/http"

	"github.com/markalston/cluster-efficiency-analyzer/backend/middleware"
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Compute bool             // runs the engine; subject to rate limiting
}

// Routes returns all API routes for registration.
func (h *Handler) Routes() []Route {
	return []Route{
		// Health & Status
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/metrics", Handler: h.Metrics},

		// Catalog
		{Method: http.MethodGet, Path: "/api/v1/catalog/providers", Handler: h.CatalogProviders},
		{Method: http.MethodGet, Path: "/api/v1/catalog/regions", Handler: h.CatalogRegions},
		{Method: http.MethodGet, Path: "/api/v1/catalog/instances", Handler: h.CatalogInstances},

		// Engine
		{Method: http.MethodPost, Path: "/api/v1/pack", Handler: h.Pack, Compute: true},
		{Method: http.MethodPost, Path: "/api/v1/cost", Handler: h.Cost, Compute: true},
		{Method: http.MethodPost, Path: "/api/v1/recommend", Handler: h.Recommend, Compute: true},
		{Method: http.MethodPost, Path: "/api/v1/analyze", Handler: h.Analyze, Compute: true},

		// Documentation
		{Method: http.MethodGet, Path: "/api/v1/openapi.yaml", Handler: h.OpenAPISpec},
	}
}

// NewServeMux registers every route with recovery, request logging, CORS,
// and metrics. Compute routes are also rate limited when limiter is non-nil.
func (h *Handler) NewServeMux(allowedOrigins []string, limiter *middleware.RateLimiter) *http.ServeMux {
	mux := http.NewServeMux()
	cors := middleware.CORSWithConfig(allowedOrigins)

	for _, route := range h.Routes() {
		pattern := route.Method + " " + route.Path
		chain := []func(http.HandlerFunc) http.HandlerFunc{
			middleware.Recover,
			middleware.LogRequest,
			cors,
			middleware.Metrics(pattern),
		}
		if route.Compute {
			chain = append(chain, middleware.RateLimit(limiter, middleware.ClientIP))
		}
		mux.HandleFunc(pattern, middleware.Chain(route.Handler, chain...))
	}

	// preflight for every API path
	mux.HandleFunc("OPTIONS /api/v1/", middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, middleware.LogRequest, cors))

	return mux
}
