// ABOUTME: Health command for cea CLI
// ABOUTME: Checks backend connectivity and catalog source status

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/cli/internal/client"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the Cluster Efficiency Analyzer backend and report catalog source status.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHealth(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	c := client.New(url)

	resp, err := c.Health(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, resp))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, resp))
	}

	if resp.Status != "ok" {
		return 1
	}
	return 0
}

// formatHealthHuman formats health response for human readability
func formatHealthHuman(url string, resp *models.HealthResponse) string {
	sources := make([]string, 0, len(resp.Catalog))
	for name, healthy := range resp.Catalog {
		state := "ok"
		if !healthy {
			state = "unavailable"
		}
		sources = append(sources, fmt.Sprintf("%s (%s)", name, state))
	}
	sort.Strings(sources)

	return fmt.Sprintf(`Backend:      %s
Status:       %s
Version:      %s
Catalog:      %s
Cached:       %d analyses`, url, resp.Status, resp.Version, strings.Join(sources, ", "), resp.CacheSize)
}

// formatHealthJSON formats health response as JSON
func formatHealthJSON(url string, resp *models.HealthResponse) string {
	output := map[string]interface{}{
		"backend":    url,
		"status":     resp.Status,
		"version":    resp.Version,
		"catalog":    resp.Catalog,
		"cache_size": resp.CacheSize,
	}
	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}
