// ABOUTME: HTTP handlers for the cluster efficiency analyzer API
// ABOUTME: Shared handler state plus JSON/YAML decoding and error mapping

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/markalston/cluster-efficiency-analyzer/backend/catalog"
	"github.com/markalston/cluster-efficiency-analyzer/backend/config"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/backend/services"
)

const (
	maxBodyBytes          = 1 << 20
	defaultAnalyzeTimeout = 10 * time.Second
)

type Handler struct {
	cfg      *config.Config
	analyzer *services.Analyzer
	catalog  catalog.Source
}

// NewHandler creates the API handlers. cfg may be nil in tests; src may be
// nil when no catalog is configured.
func NewHandler(cfg *config.Config, analyzer *services.Analyzer, src catalog.Source) *Handler {
	if analyzer == nil {
		analyzer = services.NewAnalyzer(src, nil, nil)
	}
	return &Handler{
		cfg:      cfg,
		analyzer: analyzer,
		catalog:  src,
	}
}

func (h *Handler) analyzeTimeout() time.Duration {
	if h.cfg != nil && h.cfg.AnalyzeTimeout > 0 {
		return h.cfg.AnalyzeTimeout
	}
	return defaultAnalyzeTimeout
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	writeError(w, message, code)
}

func writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeEngineError maps analyzer errors onto HTTP status codes.
func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		h.writeJSON(w, http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:  "Invalid request",
			Code:   http.StatusUnprocessableEntity,
			Fields: verr.Fields,
		})
	case errors.Is(err, context.DeadlineExceeded):
		slog.Warn("Analysis timed out", "path", r.URL.Path, "timeout", h.analyzeTimeout())
		h.writeError(w, "Analysis timed out", http.StatusGatewayTimeout)
	case errors.Is(err, context.Canceled):
		slog.Info("Client cancelled request", "path", r.URL.Path)
		h.writeError(w, "Request cancelled", http.StatusServiceUnavailable)
	default:
		slog.Error("Analysis failed", "path", r.URL.Path, "error", err)
		h.writeError(w, "Analysis failed", http.StatusInternalServerError)
	}
}

// decodeRequest reads a JSON body, or YAML when the Content-Type says so.
// Unknown fields are rejected so typos do not silently fall back to defaults.
func decodeRequest(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return fmt.Errorf("reading body: %w", err)
	}
	if len(body) > maxBodyBytes {
		return fmt.Errorf("request body exceeds %d bytes", maxBodyBytes)
	}
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return yamlDecode(body, out)
	default:
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		return nil
	}
}

func yamlDecode(body []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(body))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid YAML: %w", err)
	}
	return nil
}
