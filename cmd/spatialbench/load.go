package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/spatialbench/spatialbench-go/internal/data"
	"github.com/spatialbench/spatialbench-go/internal/loader"
)

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the parquet dataset into PostGIS",
		Long:  "Load every dataset table into a PostGIS database with spatial indexes, replacing existing tables.",
		Args:  cobra.NoArgs,
		RunE:  runLoad,
	}

	cmd.Flags().String("data-dir", "", "Directory containing the parquet dataset")
	cmd.Flags().String("dsn", "", "PostgreSQL connection string (defaults to config)")

	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	dataDir, _ := cmd.Flags().GetString("data-dir")
	if dataDir == "" {
		dataDir = cfg.Benchmark.DataDir
	}
	dsn, _ := cmd.Flags().GetString("dsn")
	if dsn == "" {
		dsn = cfg.Postgres.DSN
	}
	if dsn == "" {
		return fmt.Errorf("no postgres DSN configured")
	}

	paths, err := data.Discover(dataDir)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.PingContext(cmd.Context()); err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}

	return loader.Load(cmd.Context(), db, paths)
}
