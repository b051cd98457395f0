// ABOUTME: Wizard command for cea CLI
// ABOUTME: Collects a cluster description interactively, then analyzes it

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/markalston/cluster-efficiency-analyzer/backend/catalog"
	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/cli/internal/client"
	"github.com/markalston/cluster-efficiency-analyzer/cli/internal/tui/wizard"
)

var saveFile string

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Describe a cluster interactively and analyze it",
	Long: `Walk through the node pool, executor, workload, and catalog settings in
an interactive form, then run the analysis and show the report.

Use -f to prefill the form from an existing description and --save to
write the collected description for later use with "cea analyze".`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		var defaults models.AnalyzeRequest
		if requestFile != "" {
			req, err := loadRequest(requestFile)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
			defaults = req
		}

		req, err := wizard.New(defaults, listProviders(ctx)).Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(2)
		}

		if saveFile != "" {
			if err := saveRequest(saveFile, req); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(2)
			}
		}

		exitWith(renderAnalysis(ctx, os.Stdout, req))
	},
}

func init() {
	rootCmd.AddCommand(wizardCmd)
	addRequestFlags(wizardCmd)
	wizardCmd.Flags().StringVar(&saveFile, "save", "", "Write the collected description to this YAML file")
}

// listProviders offers the catalog's providers; an unreachable backend just
// means no recommendation choices.
func listProviders(ctx context.Context) []models.Provider {
	if localMode {
		src, err := catalog.NewFileSource(catalogDir)
		if err != nil {
			return nil
		}
		providers, _ := src.Providers(ctx)
		return providers
	}
	providers, err := client.New(GetAPIURL()).Providers(ctx)
	if err != nil {
		return nil
	}
	return providers
}

// saveRequest writes req as YAML readable by loadRequest
func saveRequest(path string, req models.AnalyzeRequest) error {
	data, err := yaml.Marshal(req)
	if err != nil {
		return fmt.Errorf("encoding description: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// renderAnalysis analyzes req and prints the report or JSON
func renderAnalysis(ctx context.Context, w io.Writer, req models.AnalyzeRequest) int {
	resp, err := analyze(ctx, req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}
	return writeAnalysis(w, resp)
}
