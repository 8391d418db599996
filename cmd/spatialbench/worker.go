package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/bench"
)

// newWorkerCmd is the hidden entry point the runner re-executes per query
// attempt: one JSON request on stdin, one JSON response on stdout.
func newWorkerCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "worker",
		Short:  "Execute a single query attempt (internal)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bench.RunWorker(os.Stdin, os.Stdout)
		},
	}
}
