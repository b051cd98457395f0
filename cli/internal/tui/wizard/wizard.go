// ABOUTME: Interactive cluster description wizard built on huh forms
// ABOUTME: Collects node, executor, workload, and catalog settings into an analyze request

package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// Wizard collects an analyze request step by step
type Wizard struct {
	clouds []huh.Option[string]

	// Form field values (strings for huh)
	nodeCores     string
	nodeMemory    string
	nodeHourly    string
	nodeCount     string
	execCores     string
	execMemory    string
	reserveCores  string
	reserveMemory string
	avgRuntime    string
	jobsPerDay    string
	dataSkew      string
	cloud         string
	region        string
}

// Step names, one form group each
var stepNames = []string{"Node Pool", "Executor", "Workload", "Catalog"}

// createTheme returns a custom huh theme matching the report colors
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	cyan := lipgloss.Color("#06B6D4")
	cyanLight := lipgloss.Color("#22D3EE")
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	red := lipgloss.Color("#F87171")

	t.Group.Title = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(cyan)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(cyanLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(red).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(red)
	t.Focused.SelectSelector = lipgloss.NewStyle().
		Foreground(cyan).
		SetString("> ")
	t.Focused.Option = lipgloss.NewStyle().
		Foreground(grayLight)
	t.Focused.SelectedOption = lipgloss.NewStyle().
		Foreground(cyan).
		Bold(true)

	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// Common node core counts
var coreOptions = []huh.Option[string]{
	huh.NewOption("4 cores", "4"),
	huh.NewOption("8 cores", "8"),
	huh.NewOption("16 cores", "16"),
	huh.NewOption("32 cores", "32"),
	huh.NewOption("64 cores", "64"),
}

// Common executor core counts
var executorCoreOptions = []huh.Option[string]{
	huh.NewOption("1 core", "1"),
	huh.NewOption("2 cores", "2"),
	huh.NewOption("4 cores", "4"),
	huh.NewOption("8 cores", "8"),
	huh.NewOption("16 cores", "16"),
}

var skewOptions = []huh.Option[string]{
	huh.NewOption("Unknown", ""),
	huh.NewOption("Low", string(models.SkewLow)),
	huh.NewOption("Medium", string(models.SkewMedium)),
	huh.NewOption("High", string(models.SkewHigh)),
}

// New creates a wizard prefilled from defaults. providers lists the clouds the
// catalog knows; an empty list offers only "no recommendation".
func New(defaults models.AnalyzeRequest, providers []models.Provider) *Wizard {
	if defaults.Node.Cores == 0 {
		defaults.Node = models.NodeShape{Cores: 16, MemoryGB: 64, HourlyCostUSD: 0.80, Count: 10}
	}
	if defaults.Executor.Cores == 0 {
		defaults.Executor = models.ExecutorShape{Cores: 4, MemoryGB: 16}
	}
	if defaults.Workload.AvgRuntimeMinutes == 0 {
		defaults.Workload.AvgRuntimeMinutes = 30
		defaults.Workload.JobsPerDay = 48
	}

	clouds := []huh.Option[string]{huh.NewOption("None (skip recommendation)", "")}
	for _, p := range providers {
		clouds = append(clouds, huh.NewOption(p.Name, p.ID))
	}

	return &Wizard{
		clouds:        clouds,
		nodeCores:     strconv.Itoa(defaults.Node.Cores),
		nodeMemory:    formatFloat(defaults.Node.MemoryGB),
		nodeHourly:    formatFloat(defaults.Node.HourlyCostUSD),
		nodeCount:     strconv.Itoa(defaults.Node.Count),
		execCores:     strconv.Itoa(defaults.Executor.Cores),
		execMemory:    formatFloat(defaults.Executor.MemoryGB),
		reserveCores:  strconv.Itoa(defaults.Reserve.ReserveCores),
		reserveMemory: formatFloat(defaults.Reserve.ReserveMemoryGB),
		avgRuntime:    formatFloat(defaults.Workload.AvgRuntimeMinutes),
		jobsPerDay:    formatFloat(defaults.Workload.JobsPerDay),
		dataSkew:      string(defaults.Workload.DataSkew.OrElse("")),
		cloud:         defaults.Cloud,
		region:        defaults.Region,
	}
}

// Form builds the multi-step form bound to the wizard's fields.
func (w *Wizard) Form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cores per node").
				Options(coreOptions...).
				Value(&w.nodeCores),
			numberInput("Memory per node (GB)", &w.nodeMemory, validatePositiveFloat),
			numberInput("Hourly cost per node (USD)", &w.nodeHourly, validateNonNegativeFloat),
			numberInput("Node count", &w.nodeCount, validatePositiveInt),
		).Title(stepTitle(0)).
			Description("The node pool you run today"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cores per executor").
				Options(executorCoreOptions...).
				Value(&w.execCores),
			numberInput("Memory per executor (GB)", &w.execMemory, validatePositiveFloat),
			numberInput("Reserved cores per node", &w.reserveCores, validateNonNegativeInt),
			numberInput("Reserved memory per node (GB)", &w.reserveMemory, validateNonNegativeFloat),
		).Title(stepTitle(1)).
			Description("Executor request and per-node headroom for the OS and daemons"),
		huh.NewGroup(
			numberInput("Average job runtime (minutes)", &w.avgRuntime, validatePositiveFloat),
			numberInput("Jobs per day", &w.jobsPerDay, validateNonNegativeFloat),
			huh.NewSelect[string]().
				Title("Data skew").
				Options(skewOptions...).
				Value(&w.dataSkew),
		).Title(stepTitle(2)).
			Description("How the cluster is used"),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Cloud to search").
				Options(w.clouds...).
				Value(&w.cloud),
			huh.NewInput().
				Title("Region").
				Description("Leave empty for default prices").
				Value(&w.region),
		).Title(stepTitle(3)).
			Description("Where to look for a cheaper configuration"),
	).WithTheme(createTheme())
}

// Run shows the form and returns the collected request
func (w *Wizard) Run() (models.AnalyzeRequest, error) {
	if err := w.Form().Run(); err != nil {
		return models.AnalyzeRequest{}, err
	}
	return w.Request()
}

// Request converts the field values into an analyze request.
func (w *Wizard) Request() (models.AnalyzeRequest, error) {
	var req models.AnalyzeRequest
	p := parser{}

	req.Node = models.NodeShape{
		Cores:         p.int("node cores", w.nodeCores),
		MemoryGB:      p.float("node memory", w.nodeMemory),
		HourlyCostUSD: p.float("node hourly cost", w.nodeHourly),
		Count:         p.int("node count", w.nodeCount),
	}
	req.Executor = models.ExecutorShape{
		Cores:    p.int("executor cores", w.execCores),
		MemoryGB: p.float("executor memory", w.execMemory),
	}
	req.Reserve = models.ReserveHeadroom{
		ReserveCores:    p.int("reserved cores", w.reserveCores),
		ReserveMemoryGB: p.float("reserved memory", w.reserveMemory),
	}
	req.Workload.AvgRuntimeMinutes = p.float("average runtime", w.avgRuntime)
	req.Workload.JobsPerDay = p.float("jobs per day", w.jobsPerDay)
	if w.dataSkew != "" {
		req.Workload.DataSkew = models.Some(models.DataSkew(w.dataSkew))
	}
	req.Cloud = strings.TrimSpace(w.cloud)
	if req.Cloud != "" {
		req.Region = strings.TrimSpace(w.region)
	}

	return req, p.err
}

// parser keeps the first conversion error
type parser struct{ err error }

func (p *parser) int(name, s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %q is not a whole number", name, s)
	}
	return v
}

func (p *parser) float(name, s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("%s: %q is not a number", name, s)
	}
	return v
}

func numberInput(title string, value *string, validate func(string) error) *huh.Input {
	return huh.NewInput().
		Title(title).
		CharLimit(10).
		Value(value).
		Validate(validate)
}

func stepTitle(i int) string {
	return fmt.Sprintf("Step %d of %d: %s", i+1, len(stepNames), stepNames[i])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func validatePositiveInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 {
		return fmt.Errorf("must be zero or more")
	}
	return nil
}

func validatePositiveFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return fmt.Errorf("must be greater than 0")
	}
	return nil
}

func validateNonNegativeFloat(s string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return fmt.Errorf("must be zero or more")
	}
	return nil
}
