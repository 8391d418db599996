// spatialbench runs a fixed set of spatial analytical queries against
// multiple engines, each attempt in an isolated worker process, and
// reports comparative timings.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/config"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "spatialbench",
		Short: "Spatial analytics benchmark harness",
		Long: "Runs a fixed set of 12 spatial analytical queries over synthetic trip, " +
			"zone and building data against multiple engines and reports comparative timings.",
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWorkerCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	rootCmd.AddCommand(newQueriesCmd())
	rootCmd.AddCommand(newSchemaCmd())
	rootCmd.AddCommand(newExplainCmd())
	rootCmd.AddCommand(newLoadCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newHistoryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
