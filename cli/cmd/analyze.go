// ABOUTME: Analyze command for cea CLI
// ABOUTME: Runs a full analysis of a cluster description against the backend or in-process

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/markalston/cluster-efficiency-analyzer/backend/catalog"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/backend/services"
	"github.com/markalston/cluster-efficiency-analyzer/cli/internal/client"
	"github.com/markalston/cluster-efficiency-analyzer/cli/internal/tui/report"
)

var (
	requestFile string
	localMode   bool
	catalogDir  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a cluster description",
	Long: `Analyze executor packing, monthly cost, and risks for a cluster description,
and recommend a cheaper instance shape when the request names a cloud.

The description is a YAML or JSON file with the same fields as the
POST /api/v1/analyze body. Use --local to run the engine in-process
against the built-in catalog instead of calling the backend.

Example:
  cea analyze -f cluster.yaml
  cea analyze -f cluster.yaml --local --json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runAnalyze(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	addRequestFlags(analyzeCmd)
	analyzeCmd.MarkFlagRequired("file")
}

// addRequestFlags registers the flags shared by commands that run an analysis
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&requestFile, "file", "f", "", "Cluster description (YAML or JSON)")
	cmd.Flags().BoolVar(&localMode, "local", false, "Run the analysis in-process instead of calling the backend")
	cmd.Flags().StringVar(&catalogDir, "catalog-dir", "", "Provider catalog directory for --local (default: built-in catalogs)")
}

// runAnalyze executes the analysis and returns exit code
func runAnalyze(ctx context.Context, w io.Writer) int {
	req, err := loadRequest(requestFile)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return renderAnalysis(ctx, w, req)
}

// writeAnalysis prints resp as JSON or as the styled report
func writeAnalysis(w io.Writer, resp *models.AnalyzeResponse) int {
	if IsJSONOutput() {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return 2
		}
		return 0
	}

	fmt.Fprintln(w, report.Render(resp))
	return 0
}

// loadRequest reads a cluster description. Unknown fields are rejected.
func loadRequest(path string) (models.AnalyzeRequest, error) {
	var req models.AnalyzeRequest
	if path == "" {
		return req, fmt.Errorf("--file is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return req, fmt.Errorf("parsing %s: %w", path, err)
		}
		return req, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("parsing %s: %w", path, err)
	}
	return req, nil
}

// analyze runs req against the backend, or in-process with --local. The
// result is rounded for display either way.
func analyze(ctx context.Context, req models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	if !localMode {
		return client.New(GetAPIURL()).Analyze(ctx, req)
	}

	src, err := catalog.NewFileSource(catalogDir)
	if err != nil {
		return nil, err
	}
	resp, err := services.NewAnalyzer(src, nil, nil).Analyze(ctx, req)
	if err != nil {
		return nil, err
	}
	rounded := resp.Rounded()
	return &rounded, nil
}
