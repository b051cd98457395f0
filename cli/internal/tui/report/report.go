// ABOUTME: Renders an analysis result as a styled terminal report
// ABOUTME: Current packing and cost, executor tuning, the recommendation, forecasts, and risk notes

package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/cli/internal/tui/styles"
)

const barWidth = 20

// Render returns the full report for resp.
func Render(resp *models.AnalyzeResponse) string {
	sections := []string{
		styles.Title.Render("Cluster Efficiency Report"),
		styles.Panel.Render(renderCurrent(resp)),
	}
	if resp.ExecutorTuning != nil {
		sections = append(sections, styles.Panel.Render(renderTuning(resp.ExecutorTuning)))
	}
	sections = append(sections, renderRecommendation(resp.Recommendation))
	if len(resp.ForecastComparison) > 0 {
		sections = append(sections, styles.Panel.Render(renderForecast(resp.ForecastComparison)))
	}
	sections = append(sections, renderRisks(resp.RiskNotes))
	if resp.Metadata.Cached {
		sections = append(sections, styles.Subtitle.Render("(served from cache)"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderCurrent(resp *models.AnalyzeResponse) string {
	p := resp.Packing
	rows := []string{
		styles.ValueStyle.Render("Current configuration"),
		row("Executors per node", fmt.Sprintf("%d", p.ExecutorsPerNode)),
		row("Efficiency", fmt.Sprintf("%s %d/100", styles.ScoreBar(p.EfficiencyScore, barWidth), p.EfficiencyScore)),
		row("Wasted per node", fmt.Sprintf("%d cores, %s GB", p.CoresWasted, trim(p.MemoryWastedGB))),
		row("Bottleneck", p.Bottleneck),
		row("Monthly cost", USD(resp.Cost.MonthlyCostUSD)),
		row("Monthly waste", USD(resp.Cost.WasteCostMonthlyUSD)),
		row("Effective hourly", USD(resp.Cost.EffectiveHourlyUSD)),
	}
	if resp.Bottleneck.Summary != "" {
		rows = append(rows, styles.Subtitle.Render(resp.Bottleneck.Summary))
	}
	return strings.Join(rows, "\n")
}

func renderTuning(t *models.ExecutorTuning) string {
	rows := []string{
		styles.ValueStyle.Render("Executor tuning (current nodes)"),
		row("Executor", fmt.Sprintf("%d cores, %s GB", t.Executor.Cores, trim(t.Executor.MemoryGB))),
		row("Executors per node", fmt.Sprintf("%d", t.Packing.ExecutorsPerNode)),
		row("Efficiency", fmt.Sprintf("%s %d/100 (%+d)", styles.ScoreBar(t.Packing.EfficiencyScore, barWidth),
			t.Packing.EfficiencyScore, t.EfficiencyGain)),
		row("Waste reduction", Savings(t.WasteReductionMonthlyUSD)),
	}
	if !t.Improves() {
		rows = append(rows, styles.Subtitle.Render("Current executor is already the best fit"))
	}
	return strings.Join(rows, "\n")
}

func renderRecommendation(rec *models.Recommendation) string {
	if rec == nil {
		return styles.Panel.Render(styles.Subtitle.Render("No recommendation available"))
	}

	c := rec.Candidate
	instance := c.ProviderID + " " + c.InstanceID
	if c.Region != "" {
		instance += " (" + c.Region + ")"
	}

	rows := []string{
		styles.ValueStyle.Render("Recommendation"),
		row("Instance", instance),
		row("Nodes", fmt.Sprintf("%d x %d cores, %s GB", c.Node.Count, c.Node.Cores, trim(c.Node.MemoryGB))),
		row("Executor", fmt.Sprintf("%d cores, %s GB", c.Executor.Cores, trim(c.Executor.MemoryGB))),
		row("Efficiency", fmt.Sprintf("%s %d/100", styles.ScoreBar(rec.Packing.EfficiencyScore, barWidth), rec.Packing.EfficiencyScore)),
		row("Monthly cost", USD(rec.Cost.MonthlyCostUSD)),
		row("Savings", Savings(rec.SavingsVsCurrentMonthlyUSD)),
		row("Candidates", fmt.Sprintf("%d feasible of %d evaluated", rec.CandidatesFeasible, rec.CandidatesEvaluated)),
	}
	return styles.ActivePanel.Render(strings.Join(rows, "\n"))
}

func renderForecast(points []models.ForecastComparison) string {
	rows := []string{styles.ValueStyle.Render("Forecast")}
	for _, fc := range points {
		rows = append(rows, fmt.Sprintf("Month %-3d %12s %12s %s",
			fc.Month, USD(fc.CurrentUSD), USD(fc.RecommendedUSD), Savings(fc.SavingsUSD)))
	}
	return strings.Join(rows, "\n")
}

func renderRisks(notes []string) string {
	if len(notes) == 0 {
		return styles.StatusOK.Render("✓ No risks detected")
	}
	lines := []string{styles.StatusWarning.Render(fmt.Sprintf("⚠ %d risk(s)", len(notes)))}
	for _, n := range notes {
		lines = append(lines, "  • "+n)
	}
	return strings.Join(lines, "\n")
}

func row(key, value string) string {
	return styles.KeyStyle.Render(key) + value
}

// USD formats an amount as dollars with cents.
func USD(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Savings colors positive savings green and extra spend amber.
func Savings(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	switch {
	case d.IsPositive():
		return styles.DeltaPositiveStyle.Render("+" + USD(v) + "/mo")
	case d.IsNegative():
		return styles.DeltaNegativeStyle.Render("-$" + d.Abs().StringFixed(2) + "/mo")
	default:
		return styles.Subtitle.Render("$0.00/mo")
	}
}

func trim(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
