// Package cmd provides the command-line interface for prefetchsim.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "prefetchsim",
	Short: "prefetchsim drives an L1 data-cache access trace through the prefetcher and reports its behavior.",
	Long: `prefetchsim drives an L1 data-cache access trace through the prefetcher ` +
		`and reports its behavior. It supports running a trace and inspecting the ` +
		`run history recorded by previous runs.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
