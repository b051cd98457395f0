// ABOUTME: Integration tests for catalog federation between analyzer deployments
// ABOUTME: An edge deployment serves local providers and forwards the rest to a central catalog

package e2e

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/backend/services"
)

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return out
}

// newFederation starts a central deployment on the built-in catalogs and an
// edge deployment with an on-prem catalog that falls back to central.
func newFederation(t *testing.T) (central, edge string, stopCentral func()) {
	t.Helper()

	centralSrv := newServer(t, loadConfig(t, map[string]string{"RATE_LIMIT_ENABLED": "false"}))

	edgeCfg := loadConfig(t, map[string]string{
		"RATE_LIMIT_ENABLED": "false",
		"CATALOG_DIR":        writeCatalogDir(t, map[string]string{"onprem.yaml": onPremCatalog}),
		"CATALOG_URL":        centralSrv.URL,
	})
	edgeSrv := newServer(t, edgeCfg)

	return centralSrv.URL, edgeSrv.URL, centralSrv.Close
}

func TestFederation_ProvidersMerged(t *testing.T) {
	_, edge, _ := newFederation(t)

	providers := decodeBody[[]models.Provider](t, get(t, edge+"/api/v1/catalog/providers"))
	var ids []string
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	if got := strings.Join(ids, ","); got != "aws,azure,gcp,onprem" {
		t.Errorf("expected merged providers aws,azure,gcp,onprem, got %s", got)
	}
}

func TestFederation_RemotePricesByRegion(t *testing.T) {
	_, edge, _ := newFederation(t)

	instances := decodeBody[[]models.InstanceSummary](t, get(t, edge+"/api/v1/catalog/instances?cloud=aws&region=eu-west-1"))
	var price float64
	for _, inst := range instances {
		if inst.ID == "m5.xlarge" {
			price = inst.HourlyUSD
		}
	}
	if price != 0.214 {
		t.Errorf("expected eu-west-1 price 0.214 via central, got %v", price)
	}

	regions := decodeBody[[]models.Region](t, get(t, edge+"/api/v1/catalog/regions?cloud=onprem"))
	if len(regions) != 1 || regions[0].ID != "dc1" {
		t.Errorf("expected local onprem regions, got %+v", regions)
	}
}

func TestFederation_RecommendFromEachSource(t *testing.T) {
	_, edge, _ := newFederation(t)

	tests := []struct {
		cloud, region string
		wantInstance  string
	}{
		{"onprem", "", "std-16"},
		{"aws", "us-east-1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.cloud, func(t *testing.T) {
			resp := post(t, edge+"/api/v1/analyze", withCloud(tt.cloud, tt.region))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			a := decodeBody[models.AnalyzeResponse](t, resp)
			if a.Recommendation == nil {
				t.Fatalf("expected a %s recommendation", tt.cloud)
			}
			if a.Recommendation.Candidate.ProviderID != tt.cloud {
				t.Errorf("expected provider %s, got %s", tt.cloud, a.Recommendation.Candidate.ProviderID)
			}
			if tt.wantInstance != "" && a.Recommendation.Candidate.InstanceID != tt.wantInstance {
				t.Errorf("expected instance %s, got %s", tt.wantInstance, a.Recommendation.Candidate.InstanceID)
			}
		})
	}
}

func TestFederation_CentralDown(t *testing.T) {
	_, edge, stopCentral := newFederation(t)
	stopCentral()

	rec := decodeBody[models.RecommendResponse](t, post(t, edge+"/api/v1/recommend", withCloud("aws", "us-east-1")))
	if rec.Recommendation != nil || rec.Message != services.NoRecommendationMessage {
		t.Errorf("expected no recommendation while central is down, got %+v", rec)
	}

	health := decodeBody[models.HealthResponse](t, get(t, edge+"/api/v1/health"))
	if health.Status != "degraded" || health.Catalog["remote"] {
		t.Errorf("expected degraded health with remote down, got %+v", health)
	}

	// local providers keep working
	local := decodeBody[models.RecommendResponse](t, post(t, edge+"/api/v1/recommend", withCloud("onprem", "")))
	if local.Recommendation == nil {
		t.Error("expected on-prem recommendation while central is down")
	}
}
