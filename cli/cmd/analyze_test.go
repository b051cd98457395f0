// ABOUTME: Tests for the analyze command
// ABOUTME: Covers local and backend analysis, request loading, and saved descriptions

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

func TestAnalyzeCommand_Local(t *testing.T) {
	writeRequest(t, "cluster.yaml", standardYAML)
	localMode = true
	jsonOutput = true

	var buf bytes.Buffer
	if exitCode := runAnalyze(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}

	var resp models.AnalyzeResponse
	if err := json.Unmarshal(buf.Bytes(), &resp); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if resp.Packing.ExecutorsPerNode != 3 || resp.Packing.EfficiencyScore != 75 {
		t.Errorf("unexpected packing %+v", resp.Packing)
	}
	if resp.Cost.MonthlyCostUSD != 5840 {
		t.Errorf("expected monthly cost 5840, got %v", resp.Cost.MonthlyCostUSD)
	}
	if resp.Recommendation == nil || resp.Recommendation.Candidate.ProviderID != "aws" {
		t.Errorf("expected an aws recommendation, got %+v", resp.Recommendation)
	}
}

func TestAnalyzeCommand_LocalValidationError(t *testing.T) {
	writeRequest(t, "cluster.yaml", strings.Replace(standardYAML, "count: 10", "count: 0", 1))
	localMode = true

	var buf bytes.Buffer
	if exitCode := runAnalyze(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !strings.Contains(buf.String(), "node.count") {
		t.Errorf("expected field name in error, got %q", buf.String())
	}
}

func TestAnalyzeCommand_Backend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Cloud != "aws" || req.Node.Count != 10 {
			t.Errorf("request not forwarded intact: %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(models.AnalyzeResponse{
			Packing:   models.PackingResult{ExecutorsPerNode: 3, EfficiencyScore: 75},
			Cost:      models.CostResult{MonthlyCostUSD: 5840},
			RiskNotes: []string{},
		})
	}))
	defer server.Close()

	writeRequest(t, "cluster.yaml", standardYAML)
	apiURL = server.URL

	var buf bytes.Buffer
	if exitCode := runAnalyze(context.Background(), &buf); exitCode != 0 {
		t.Fatalf("expected exit code 0, got %d: %s", exitCode, buf.String())
	}
	for _, want := range []string{"Cluster Efficiency Report", "75/100", "$5840.00"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestAnalyzeCommand_ConnectionError(t *testing.T) {
	writeRequest(t, "cluster.yaml", standardYAML)
	apiURL = "http://localhost:99999"

	var buf bytes.Buffer
	if exitCode := runAnalyze(context.Background(), &buf); exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
}

func TestLoadRequest(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr bool
	}{
		{"yaml", "c.yaml", standardYAML, false},
		{"json", "c.json", `{"node": {"cores": 16, "memory_gb": 64, "count": 10}, "cloud": "gcp"}`, false},
		{"unknown yaml field", "c.yaml", standardYAML + "gpus: 4\n", true},
		{"unknown json field", "c.json", `{"nodes": {}}`, true},
		{"malformed", "c.yaml", "node: [", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRequest(t, tt.file, tt.body)
			_, err := loadRequest(path)
			if tt.wantErr != (err != nil) {
				t.Errorf("loadRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	if _, err := loadRequest(""); err == nil {
		t.Error("expected error for missing --file")
	}
	if _, err := loadRequest(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveRequest_RoundTrip(t *testing.T) {
	path := writeRequest(t, "cluster.yaml", standardYAML)
	req, err := loadRequest(path)
	if err != nil {
		t.Fatalf("loadRequest() error = %v", err)
	}
	req.Workload.DataSkew = models.Some(models.SkewMedium)

	saved := filepath.Join(t.TempDir(), "saved.yaml")
	if err := saveRequest(saved, req); err != nil {
		t.Fatalf("saveRequest() error = %v", err)
	}
	got, err := loadRequest(saved)
	if err != nil {
		t.Fatalf("loading saved description: %v", err)
	}
	if got.Node != req.Node || got.Cloud != "aws" || got.Region != "us-east-1" {
		t.Errorf("saved description differs: %+v", got)
	}
	if got.Workload.DataSkew.OrElse("") != models.SkewMedium {
		t.Errorf("expected medium skew, got %+v", got.Workload.DataSkew)
	}
	if got.Workload.SpotPct.Valid {
		t.Error("expected spot_pct to stay absent")
	}
}
