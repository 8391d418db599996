package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/results"
	"github.com/spatialbench/spatialbench-go/pkg/client"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Browse archived benchmark runs",
		Long:  "List archived runs from MongoDB or a results server, or print one run as JSON when a run ID is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistory,
	}

	cmd.Flags().Int64("limit", 20, "Maximum number of runs to list")
	cmd.Flags().String("server", "", "Results server URL to query instead of MongoDB")
	cmd.Flags().String("token", "", "Auth token for the results server")

	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		return runHistoryRemote(cmd, args, server)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.MongoDB.URI == "" {
		return fmt.Errorf("no mongodb URI configured")
	}

	store, err := results.NewStore(cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		store.Close(ctx)
	}()

	if len(args) == 1 {
		run, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found", args[0])
		}
		return printRunJSON(run)
	}

	limit, _ := cmd.Flags().GetInt64("limit")
	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	fmt.Printf("%-36s  %-20s  %-8s  %s\n", "RUN ID", "ARCHIVED", "SUITES", "ENGINES")
	for _, run := range runs {
		engines := make([]string, 0, len(run.Suites))
		for _, suite := range run.Suites {
			engines = append(engines, suite.Engine)
		}
		fmt.Printf("%-36s  %-20s  %-8d  %v\n",
			run.RunID, run.ArchivedAt.Format("2006-01-02 15:04:05"), len(run.Suites), engines)
	}
	return nil
}

func runHistoryRemote(cmd *cobra.Command, args []string, server string) error {
	token, _ := cmd.Flags().GetString("token")
	c := client.NewClient(client.Config{BaseURL: server, Token: token})

	if len(args) == 1 {
		run, err := c.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printRunJSON(run)
	}

	limit, _ := cmd.Flags().GetInt64("limit")
	runs, err := c.ListRuns(cmd.Context(), int(limit))
	if err != nil {
		return err
	}

	fmt.Printf("%-36s  %-20s  %-8s  %s\n", "RUN ID", "ARCHIVED", "SUITES", "ENGINES")
	for _, run := range runs {
		engines := make([]string, 0, len(run.Suites))
		for _, suite := range run.Suites {
			engines = append(engines, suite.Engine)
		}
		fmt.Printf("%-36s  %-20s  %-8d  %v\n",
			run.RunID, run.ArchivedAt.Format("2006-01-02 15:04:05"), len(run.Suites), engines)
	}
	return nil
}

func printRunJSON(run any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
