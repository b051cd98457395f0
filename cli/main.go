// ABOUTME: Entry point for the cea CLI
// ABOUTME: Command-line tool for cluster efficiency analysis and CI/CD integration

package main

import (
	"fmt"
	"os"

	"github.com/markalston/cluster-efficiency-analyzer/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
