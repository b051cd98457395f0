package services

import (
	"testing"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

func TestFingerprint_Stable(t *testing.T) {
	a, err := Fingerprint(validRequest())
	if err != nil {
		t.Fatalf("Fingerprint() error = %v", err)
	}
	b, _ := Fingerprint(validRequest())
	if a != b {
		t.Errorf("Expected identical fingerprints, got %s and %s", a, b)
	}
	if len(a) != 16 {
		t.Errorf("Expected 16 hex digits, got %q", a)
	}
}

func TestFingerprint_Distinguishes(t *testing.T) {
	base, _ := Fingerprint(validRequest())

	tests := []struct {
		name   string
		mutate func(r *models.AnalyzeRequest)
	}{
		{"node count", func(r *models.AnalyzeRequest) { r.Node.Count = 11 }},
		{"cloud", func(r *models.AnalyzeRequest) { r.Cloud = "aws" }},
		{"explicit zero spot", func(r *models.AnalyzeRequest) { r.Workload.SpotPct = models.Some(0.0) }},
		{"skew", func(r *models.AnalyzeRequest) { r.Workload.DataSkew = models.Some(models.SkewLow) }},
		{"forecast months", func(r *models.AnalyzeRequest) { r.Assumptions.ForecastMonths = models.Some(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			got, err := Fingerprint(req)
			if err != nil {
				t.Fatalf("Fingerprint() error = %v", err)
			}
			if got == base {
				t.Errorf("Expected fingerprint to change for %s", tt.name)
			}
		})
	}
}
