// ABOUTME: Shared helpers for command tests
// ABOUTME: Writes cluster descriptions to temp files and resets global flags

package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

const standardYAML = `
node: {cores: 16, memory_gb: 64, hourly_cost_usd: 0.80, count: 10}
executor: {cores: 4, memory_gb: 16}
reserve: {reserve_cores: 1, reserve_memory_gb: 4}
workload: {avg_runtime_minutes: 30, jobs_per_day: 48}
cloud: aws
region: us-east-1
`

// writeRequest writes body to a temp file named name and points --file at it
func writeRequest(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	requestFile = path
	t.Cleanup(resetFlags)
	return path
}

func resetFlags() {
	apiURL = ""
	jsonOutput = false
	requestFile = ""
	localMode = false
	catalogDir = ""
	minEfficiency = 60
	maxWastePct = 30
	failOnRisk = false
	catalogRegion = ""
	saveFile = ""
}
