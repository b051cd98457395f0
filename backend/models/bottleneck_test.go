// ABOUTME: Tests for per-node bottleneck analysis
// ABOUTME: Validates resource ordering, classification, and the no-fit summary

package models

import (
	"strings"
	"testing"
)

func TestRankResourcesByUtilization_SingleResource(t *testing.T) {
	resources := []ResourceUtilization{
		{Name: "Memory", UsedPercent: 50.0},
	}

	ranked := RankResourcesByUtilization(resources)

	if len(ranked) != 1 {
		t.Fatalf("Expected 1 resource, got %d", len(ranked))
	}
	if !ranked[0].IsConstraining {
		t.Error("Single resource should be marked as constraining")
	}
}

func TestRankResourcesByUtilization_MultipleResources(t *testing.T) {
	tests := []struct {
		name              string
		resources         []ResourceUtilization
		expectedConstrain string
	}{
		{
			name: "Memory is constraining",
			resources: []ResourceUtilization{
				{Name: "CPU", UsedPercent: 32.0},
				{Name: "Memory", UsedPercent: 78.0},
			},
			expectedConstrain: "Memory",
		},
		{
			name: "CPU is constraining",
			resources: []ResourceUtilization{
				{Name: "CPU", UsedPercent: 91.0},
				{Name: "Memory", UsedPercent: 40.0},
			},
			expectedConstrain: "CPU",
		},
		{
			name: "Tie keeps input order",
			resources: []ResourceUtilization{
				{Name: "CPU", UsedPercent: 60.0},
				{Name: "Memory", UsedPercent: 60.0},
			},
			expectedConstrain: "CPU",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ranked := RankResourcesByUtilization(tt.resources)
			if ranked[0].Name != tt.expectedConstrain {
				t.Errorf("Expected %s constraining, got %s", tt.expectedConstrain, ranked[0].Name)
			}
			if ranked[1].IsConstraining {
				t.Error("Only the first resource should be constraining")
			}
		})
	}
}

func TestRankResourcesByUtilization_DoesNotMutateInput(t *testing.T) {
	resources := []ResourceUtilization{
		{Name: "CPU", UsedPercent: 10.0},
		{Name: "Memory", UsedPercent: 90.0},
	}
	RankResourcesByUtilization(resources)
	if resources[0].Name != "CPU" || resources[0].IsConstraining {
		t.Error("Input slice was modified")
	}
}

func TestClassifyBottleneck(t *testing.T) {
	tests := []struct {
		name      string
		executors int
		cpu, mem  float64
		want      string
	}{
		{"nothing fits", 0, 0, 0, BottleneckNone},
		{"cpu bound", 3, 100, 60, BottleneckCPU},
		{"memory bound", 3, 60, 100, BottleneckMemory},
		{"balanced", 3, 98, 100, BottleneckBalanced},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyBottleneck(tt.executors, tt.cpu, tt.mem); got != tt.want {
				t.Errorf("ClassifyBottleneck() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeBottleneck(t *testing.T) {
	node := NodeShape{Cores: 16, MemoryGB: 64, HourlyCostUSD: 0.8, Count: 10}
	reserve := ReserveHeadroom{ReserveCores: 1, ReserveMemoryGB: 4}
	packing := PackingResult{ExecutorsPerNode: 3, CoresUsed: 12, MemoryUsedGB: 48}

	analysis := AnalyzeBottleneck(node, reserve, packing)

	if len(analysis.Resources) != 2 {
		t.Fatalf("Expected 2 resources, got %d", len(analysis.Resources))
	}
	// 12/15 cores and 48/60 GB are both 80%
	if analysis.ConstrainingResource != "CPU" {
		t.Errorf("Expected CPU constraining on tie, got %s", analysis.ConstrainingResource)
	}
}

func TestAnalyzeBottleneck_MemoryBound(t *testing.T) {
	node := NodeShape{Cores: 16, MemoryGB: 64, Count: 1}
	packing := PackingResult{ExecutorsPerNode: 2, CoresUsed: 4, MemoryUsedGB: 60}

	analysis := AnalyzeBottleneck(node, ReserveHeadroom{}, packing)

	if analysis.ConstrainingResource != "Memory" {
		t.Errorf("Expected Memory constraining, got %s", analysis.ConstrainingResource)
	}
	if !strings.Contains(analysis.Summary, "12.0 cores of CPU stay idle") {
		t.Errorf("Unexpected summary: %s", analysis.Summary)
	}
}

func TestAnalyzeBottleneck_NoFit(t *testing.T) {
	node := NodeShape{Cores: 16, MemoryGB: 64, Count: 1}
	reserve := ReserveHeadroom{ReserveMemoryGB: 64}

	analysis := AnalyzeBottleneck(node, reserve, PackingResult{})

	if analysis.ConstrainingResource != BottleneckNone {
		t.Errorf("Expected none, got %s", analysis.ConstrainingResource)
	}
	if len(analysis.Resources) != 0 {
		t.Errorf("Expected no resources, got %d", len(analysis.Resources))
	}
}
