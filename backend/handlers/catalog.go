// ABOUTME: HTTP handlers for browsing the instance catalog
// ABOUTME: Providers, regions, and priced instance types per provider

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/markalston/cluster-efficiency-analyzer/backend/catalog"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/backend/services"
)

// CatalogProviders lists every provider known to the catalog.
func (h *Handler) CatalogProviders(w http.ResponseWriter, r *http.Request) {
	if h.catalog == nil {
		h.writeJSON(w, http.StatusOK, []models.Provider{})
		return
	}

	providers, err := h.catalog.Providers(r.Context())
	if err != nil {
		slog.Error("Listing catalog providers failed", "error", err)
		h.writeError(w, "Catalog unavailable", http.StatusBadGateway)
		return
	}
	if providers == nil {
		providers = []models.Provider{}
	}
	h.writeJSON(w, http.StatusOK, providers)
}

// CatalogRegions lists regions for ?cloud=.
func (h *Handler) CatalogRegions(w http.ResponseWriter, r *http.Request) {
	cloud := r.URL.Query().Get("cloud")
	if err := services.ValidateCatalogID("cloud", cloud); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.catalog == nil {
		h.writeError(w, "Unknown cloud", http.StatusNotFound)
		return
	}

	regions, err := h.catalog.Regions(r.Context(), cloud)
	if err != nil {
		h.writeCatalogError(w, cloud, err)
		return
	}
	if regions == nil {
		regions = []models.Region{}
	}
	h.writeJSON(w, http.StatusOK, regions)
}

// CatalogInstances lists instance types for ?cloud= priced for ?region=.
// With ?id= it returns that one instance type.
func (h *Handler) CatalogInstances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cloud, region, id := q.Get("cloud"), q.Get("region"), q.Get("id")

	if err := services.ValidateCatalogID("cloud", cloud); err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if region != "" {
		if err := services.ValidateCatalogID("region", region); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if id != "" {
		if err := services.ValidateCatalogID("id", id); err != nil {
			h.writeError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	if h.catalog == nil {
		h.writeError(w, "Unknown cloud", http.StatusNotFound)
		return
	}

	entries, err := h.catalog.LookupCatalog(r.Context(), cloud, region)
	if err != nil {
		h.writeCatalogError(w, cloud, err)
		return
	}

	instances := models.Summarize(entries, region)
	if id == "" {
		h.writeJSON(w, http.StatusOK, instances)
		return
	}
	for _, inst := range instances {
		if inst.ID == id {
			h.writeJSON(w, http.StatusOK, inst)
			return
		}
	}
	h.writeError(w, "Unknown instance type", http.StatusNotFound)
}

func (h *Handler) writeCatalogError(w http.ResponseWriter, cloud string, err error) {
	if errors.Is(err, catalog.ErrProviderNotFound) {
		h.writeError(w, "Unknown cloud", http.StatusNotFound)
		return
	}
	slog.Error("Catalog lookup failed", "cloud", cloud, "error", err)
	h.writeError(w, "Catalog unavailable", http.StatusBadGateway)
}
