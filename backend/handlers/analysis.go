// ABOUTME: HTTP handlers for the packing, cost, recommendation, and analyze endpoints
// ABOUTME: Decodes a cluster description, runs the engine, and returns rounded results

package handlers

import (
	"context"
	"net/http"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

func (h *Handler) decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (models.AnalyzeRequest, bool) {
	var req models.AnalyzeRequest
	if err := decodeRequest(r, &req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request body",
			Details: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return req, false
	}
	return req, true
}

// Pack returns executors per node, efficiency, waste, and the bottleneck.
func (h *Handler) Pack(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.analyzer.Pack(req)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	resp.Packing = models.RoundPacking(resp.Packing)
	resp.Bottleneck = resp.Bottleneck.Rounded()
	h.writeJSON(w, http.StatusOK, resp)
}

// Cost returns the packing result and monthly cost.
func (h *Handler) Cost(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.analyzer.Cost(req)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	resp.Packing = models.RoundPacking(resp.Packing)
	resp.Cost = models.RoundCost(resp.Cost)
	h.writeJSON(w, http.StatusOK, resp)
}

// Recommend searches the requested cloud's catalog. A null recommendation is
// a 200 with an explanatory message.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.analyzeTimeout())
	defer cancel()

	resp, err := h.analyzer.Recommend(ctx, req)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	resp.Recommendation = resp.Recommendation.Rounded()
	h.writeJSON(w, http.StatusOK, resp)
}

// Analyze runs the full analysis. Identical requests are served from cache;
// a request that outlives ANALYZE_TIMEOUT gets a 504.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeAnalyzeRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.analyzeTimeout())
	defer cancel()

	resp, err := h.analyzer.Analyze(ctx, req)
	if err != nil {
		h.writeEngineError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, resp.Rounded())
}
