package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/dialect"
)

func newQueriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Print the benchmark query SQL",
		Long: "Print the SQL text of the benchmark queries for a dialect. " +
			"Available dialects: " + strings.Join(dialect.Names(), ", ") + ".",
		Args: cobra.NoArgs,
		RunE: runQueries,
	}

	cmd.Flags().String("dialect", "spatial", "SQL dialect to print")
	cmd.Flags().String("query", "", "Print a single query (e.g. q4)")

	return cmd
}

func runQueries(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("dialect")
	d, err := dialect.Get(name)
	if err != nil {
		return err
	}

	names := dialect.QueryNames()
	if q, _ := cmd.Flags().GetString("query"); q != "" {
		names = []string{q}
	}

	for _, query := range names {
		sqlText, err := d.Query(query)
		if err != nil {
			return err
		}
		fmt.Printf("-- %s (%s)\n%s\n\n", query, d.Name(), strings.TrimSpace(sqlText))
	}
	return nil
}
