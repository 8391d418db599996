package main

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/dialect"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <query>",
		Short: "Show the PostGIS execution plan for a benchmark query",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplain,
	}

	cmd.Flags().String("dsn", "", "PostgreSQL connection string (defaults to config)")
	cmd.Flags().Bool("analyze", false, "Execute the query and report actual times")

	return cmd
}

func runExplain(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		dsn = cfg.Postgres.DSN
	}
	if dsn == "" {
		return fmt.Errorf("no postgres DSN configured")
	}

	d, err := dialect.Get("postgis")
	if err != nil {
		return err
	}
	sqlText, err := d.Query(args[0])
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	explain := "EXPLAIN (VERBOSE, FORMAT TEXT) "
	if analyze, _ := cmd.Flags().GetBool("analyze"); analyze {
		explain = "EXPLAIN (ANALYZE, VERBOSE, FORMAT TEXT) "
	}

	rows, err := db.QueryContext(cmd.Context(), explain+sqlText)
	if err != nil {
		return fmt.Errorf("explain %s: %w", args[0], err)
	}
	defer rows.Close()

	fmt.Printf("%s QUERY PLAN %s\n", strings.Repeat("=", 20), strings.Repeat("=", 20))
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return err
		}
		fmt.Println(line)
	}
	fmt.Println(strings.Repeat("=", 52))
	return rows.Err()
}
