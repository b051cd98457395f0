// ABOUTME: Catalog commands for cea CLI
// ABOUTME: Lists providers, regions, and priced instance types from the backend

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
	"github.com/markalston/cluster-efficiency-analyzer/cli/internal/client"
)

var catalogRegion string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the instance catalog",
}

var catalogProvidersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List cloud providers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runCatalog(cmd.Context(), os.Stdout, catalogProviders, ""))
	},
}

var catalogRegionsCmd = &cobra.Command{
	Use:   "regions <cloud>",
	Short: "List regions for a provider",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runCatalog(cmd.Context(), os.Stdout, catalogRegions, args[0]))
	},
}

var catalogInstancesCmd = &cobra.Command{
	Use:   "instances <cloud>",
	Short: "List instance types with hourly prices",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitWith(runCatalog(cmd.Context(), os.Stdout, catalogInstances, args[0]))
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogProvidersCmd, catalogRegionsCmd, catalogInstancesCmd)
	catalogInstancesCmd.Flags().StringVar(&catalogRegion, "region", "", "Price instances for this region")
}

type catalogQuery int

const (
	catalogProviders catalogQuery = iota
	catalogRegions
	catalogInstances
)

func exitWith(code int) {
	if code != 0 {
		os.Exit(code)
	}
}

// runCatalog executes one catalog query and returns exit code
func runCatalog(ctx context.Context, w io.Writer, query catalogQuery, cloud string) int {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(GetAPIURL())

	var (
		data any
		err  error
	)
	switch query {
	case catalogProviders:
		data, err = c.Providers(ctx)
	case catalogRegions:
		data, err = c.Regions(ctx, cloud)
	case catalogInstances:
		data, err = c.Instances(ctx, cloud, catalogRegion)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		out, _ := json.MarshalIndent(data, "", "  ")
		fmt.Fprintln(w, string(out))
		return 0
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	switch v := data.(type) {
	case []models.Provider:
		fmt.Fprintln(tw, "ID\tNAME")
		for _, p := range v {
			fmt.Fprintf(tw, "%s\t%s\n", p.ID, p.Name)
		}
	case []models.Region:
		fmt.Fprintln(tw, "ID\tNAME")
		for _, r := range v {
			fmt.Fprintf(tw, "%s\t%s\n", r.ID, r.Name)
		}
	case []models.InstanceSummary:
		fmt.Fprintln(tw, "ID\tCORES\tMEMORY GB\tHOURLY")
		for _, i := range v {
			fmt.Fprintf(tw, "%s\t%d\t%g\t$%g\n", i.ID, i.Cores, i.MemoryGB, i.HourlyUSD)
		}
	}
	return 0
}
