// ABOUTME: Check command for cea CLI
// ABOUTME: Validates efficiency and waste thresholds for CI/CD pipelines

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

var (
	minEfficiency int
	maxWastePct   int
	failOnRisk    bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check efficiency thresholds",
	Long: `Analyze a cluster description and exit non-zero if any threshold is violated.

Exit codes:
  0 - All checks passed
  1 - One or more thresholds violated
  2 - Error (connectivity, invalid input)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCheck(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	addRequestFlags(checkCmd)
	checkCmd.MarkFlagRequired("file")
	checkCmd.Flags().IntVar(&minEfficiency, "min-efficiency", 60, "Minimum packing efficiency score (0-100)")
	checkCmd.Flags().IntVar(&maxWastePct, "max-waste", 30, "Maximum share of monthly cost spent on idle capacity, percent")
	checkCmd.Flags().BoolVar(&failOnRisk, "fail-on-risk", false, "Fail when the analysis reports any risk")
}

// checkResult represents the result of a single threshold check
type checkResult struct {
	name      string
	value     float64
	threshold float64
	unit      string
	passed    bool
}

// runCheck executes the threshold checks and returns exit code
func runCheck(ctx context.Context, w io.Writer) int {
	if err := validateThresholds(minEfficiency, maxWastePct); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	req, err := loadRequest(requestFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	resp, err := analyze(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	results := performChecks(resp)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return 1
	}
	return 0
}

// validateThresholds ensures threshold values are valid
func validateThresholds(efficiency, waste int) error {
	if efficiency < 0 || efficiency > 100 {
		return fmt.Errorf("--min-efficiency must be between 0 and 100")
	}
	if waste < 0 || waste > 100 {
		return fmt.Errorf("--max-waste must be between 0 and 100")
	}
	return nil
}

// wastePct is the share of monthly spend lost to idle capacity
func wastePct(cost models.CostResult) float64 {
	if cost.MonthlyCostUSD <= 0 {
		return 0
	}
	return cost.WasteCostMonthlyUSD / cost.MonthlyCostUSD * 100
}

// performChecks runs all threshold checks against the analysis
func performChecks(resp *models.AnalyzeResponse) []checkResult {
	score := float64(resp.Packing.EfficiencyScore)
	waste := wastePct(resp.Cost)

	results := []checkResult{
		{
			name:      "Packing efficiency",
			value:     score,
			threshold: float64(minEfficiency),
			unit:      "",
			passed:    score >= float64(minEfficiency),
		},
		{
			name:      "Idle spend",
			value:     waste,
			threshold: float64(maxWastePct),
			unit:      "%",
			passed:    waste <= float64(maxWastePct),
		},
	}

	if failOnRisk {
		results = append(results, checkResult{
			name:      "Risk notes",
			value:     float64(len(resp.RiskNotes)),
			threshold: 0,
			passed:    len(resp.RiskNotes) == 0,
		})
	}

	return results
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		output += fmt.Sprintf("%s %s: %.0f%s (threshold: %.0f%s)\n",
			symbol, r.name, r.value, r.unit, r.threshold, r.unit)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) violated threshold", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) within thresholds", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"unit":      r.unit,
			"passed":    r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
