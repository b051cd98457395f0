package models

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestOptional_JSONNullAndMissing(t *testing.T) {
	var w WorkloadProfile
	body := `{"avg_runtime_minutes": 30, "jobs_per_day": 10, "spot_pct": null, "data_skew": "high"}`
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if w.SpotPct.Valid {
		t.Error("Expected null spot_pct to be absent")
	}
	if w.PartitionCount.Valid {
		t.Error("Expected missing partition_count to be absent")
	}
	if skew, ok := w.DataSkew.Get(); !ok || skew != SkewHigh {
		t.Errorf("Expected data_skew high, got %v (present=%v)", skew, ok)
	}
}

func TestOptional_ZeroIsPresent(t *testing.T) {
	var w WorkloadProfile
	if err := json.Unmarshal([]byte(`{"spot_pct": 0}`), &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if v, ok := w.SpotPct.Get(); !ok || v != 0 {
		t.Errorf("Expected explicit 0 to be present, got %v (present=%v)", v, ok)
	}
}

func TestOptional_OmitsAbsentOnMarshal(t *testing.T) {
	w := WorkloadProfile{AvgRuntimeMinutes: 30, SpotPct: Some(25.0)}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if _, ok := raw["partition_count"]; ok {
		t.Error("Absent field should be omitted")
	}
	if raw["spot_pct"] != 25.0 {
		t.Errorf("Expected spot_pct 25, got %v", raw["spot_pct"])
	}
}

func TestOptional_YAML(t *testing.T) {
	var w WorkloadProfile
	doc := "avg_runtime_minutes: 45\nspot_pct: ~\nautoscale_max_nodes: 20\n"
	if err := yaml.Unmarshal([]byte(doc), &w); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if w.SpotPct.Valid {
		t.Error("Expected ~ to decode as absent")
	}
	if got := w.AutoscaleMaxNodes.OrElse(0); got != 20 {
		t.Errorf("Expected autoscale_max_nodes 20, got %d", got)
	}
}

func TestOptional_YAMLKeepsAbsence(t *testing.T) {
	in := WorkloadProfile{AvgRuntimeMinutes: 30, SpotPct: Some(0.0)}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out WorkloadProfile
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !out.SpotPct.Valid || out.SpotPct.Value != 0 {
		t.Errorf("Expected explicit zero spot_pct to survive, got %+v", out.SpotPct)
	}
	if out.DataSkew.Valid || out.AutoscaleMaxNodes.Valid {
		t.Error("Expected absent fields to stay absent")
	}
}

func TestWorkloadProfile_ShuffleGB(t *testing.T) {
	w := WorkloadProfile{ShuffleReadMB: Some(1024.0), ShuffleWriteMB: Some(2048.0)}
	if got := w.ShuffleGB(); got != 3.0 {
		t.Errorf("ShuffleGB() = %v, want 3", got)
	}
	if got := (WorkloadProfile{}).ShuffleGB(); got != 0 {
		t.Errorf("ShuffleGB() with no shuffle = %v, want 0", got)
	}
}
