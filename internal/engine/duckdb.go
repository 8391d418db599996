package engine

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/spatialbench/spatialbench-go/internal/data"
	"github.com/spatialbench/spatialbench-go/internal/dialect"
)

// duckDBEngine runs queries on an in-memory DuckDB with the spatial
// extension loaded. Tables are exposed as views over read_parquet so the
// database itself stays empty.
type duckDBEngine struct {
	db      *sql.DB
	version string
}

func (e *duckDBEngine) Name() string { return "duckdb" }

func (e *duckDBEngine) Setup(ctx context.Context, opts Options) error {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("open duckdb: %w", err)
	}
	e.db = db

	for _, stmt := range []string{"INSTALL spatial", "LOAD spatial"} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}

	for _, table := range data.Tables {
		path, ok := opts.Paths[table]
		if !ok {
			continue
		}
		stmt := fmt.Sprintf("CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet('%s')",
			table, data.GlobPattern(path))
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create view %s: %w", table, err)
		}
	}

	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&e.version); err != nil {
		return fmt.Errorf("query duckdb version: %w", err)
	}
	return nil
}

func (e *duckDBEngine) Execute(ctx context.Context, query string) (int64, error) {
	d, err := dialect.Get("duckdb")
	if err != nil {
		return 0, err
	}
	sqlText, err := d.Query(query)
	if err != nil {
		return 0, err
	}

	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", query, err)
	}
	defer rows.Close()

	var count int64
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", query, err)
	}
	return count, nil
}

func (e *duckDBEngine) Version() string { return "duckdb " + e.version }

func (e *duckDBEngine) Teardown() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}
