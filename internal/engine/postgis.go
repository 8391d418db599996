package engine

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/spatialbench/spatialbench-go/internal/dialect"
)

// postgisEngine runs queries against a PostGIS-enabled PostgreSQL server.
// Tables must be loaded ahead of time with the load command; Setup only
// verifies the connection.
type postgisEngine struct {
	db      *sql.DB
	version string
}

func (e *postgisEngine) Name() string { return "postgis" }

func (e *postgisEngine) Setup(ctx context.Context, opts Options) error {
	if opts.PostgresDSN == "" {
		return fmt.Errorf("postgis engine requires a postgres DSN")
	}

	db, err := sql.Open("postgres", opts.PostgresDSN)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	e.db = db

	var server, postgis string
	row := db.QueryRowContext(ctx,
		"SELECT current_setting('server_version'), postgis_lib_version()")
	if err := row.Scan(&server, &postgis); err != nil {
		return fmt.Errorf("query postgis version: %w", err)
	}
	e.version = fmt.Sprintf("postgresql %s, postgis %s", server, postgis)
	return nil
}

func (e *postgisEngine) Execute(ctx context.Context, query string) (int64, error) {
	d, err := dialect.Get("postgis")
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

func (e *postgisEngine) Version() string { return e.version }

func (e *postgisEngine) Teardown() error {
	if e.db == nil {
		return nil
	}
	return e.db.Close()
}
