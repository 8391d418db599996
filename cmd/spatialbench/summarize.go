package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/report"
)

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Render a markdown comparison report from result files",
		Args:  cobra.NoArgs,
		RunE:  runSummarize,
	}

	cmd.Flags().String("results-dir", ".", "Directory containing *_results.json files")
	cmd.Flags().StringP("output", "o", "benchmark_summary.md", "Output markdown file")
	cmd.Flags().Int("timeout", 60, "Query timeout in seconds (for reporting)")
	cmd.Flags().Int("runs", 3, "Number of runs per query (for reporting)")

	return cmd
}

func runSummarize(cmd *cobra.Command, args []string) error {
	resultsDir, _ := cmd.Flags().GetString("results-dir")
	output, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetInt("timeout")
	runs, _ := cmd.Flags().GetInt("runs")

	suites, err := report.LoadDir(resultsDir)
	if err != nil {
		return err
	}
	if len(suites) == 0 {
		fmt.Printf("No results found in %s\n", resultsDir)
	}

	md := report.Markdown(suites, time.Duration(timeout)*time.Second, runs)
	if err := os.WriteFile(output, []byte(md), 0o644); err != nil {
		return err
	}

	fmt.Printf("Summary written to %s\n", output)
	fmt.Println("\nPreview:")
	fmt.Println("------------------------------------------------------------")
	if len(md) > 2000 {
		fmt.Println(md[:2000])
		fmt.Println("...")
	} else {
		fmt.Println(md)
	}
	return nil
}
