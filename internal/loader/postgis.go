// Package loader ingests the parquet dataset into a PostGIS database so
// the postgis engine can query pre-loaded, indexed tables.
package loader

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/spatialbench/spatialbench-go/internal/data"
)

const copyBatch = 4096

// Load ingests every table of the dataset. Existing tables are replaced.
func Load(ctx context.Context, db *sql.DB, paths map[string]string) error {
	for _, table := range data.Tables {
		path, ok := paths[table]
		if !ok {
			continue
		}
		if err := loadTable(ctx, db, table, path); err != nil {
			return fmt.Errorf("load %s: %w", table, err)
		}
	}
	return nil
}

// isGeometryColumn reports whether a column holds WKB geometry. The
// dataset encodes locations in *loc columns and polygons in *boundary.
func isGeometryColumn(name string) bool {
	return strings.HasSuffix(name, "loc") || strings.HasSuffix(name, "boundary")
}

func loadTable(ctx context.Context, db *sql.DB, table, path string) error {
	files, err := data.Files(path)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no parquet files under %s", path)
	}

	fields, err := readFields(files[0])
	if err != nil {
		return err
	}

	staging := table + "_staging"
	ddl := make([]string, 0, len(fields))
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name())
		ddl = append(ddl, fmt.Sprintf("%s %s", f.Name(), stagingType(f)))
	}

	stmts := []string{
		fmt.Sprintf("DROP TABLE IF EXISTS %s", staging),
		fmt.Sprintf("DROP TABLE IF EXISTS %s", table),
		fmt.Sprintf("CREATE TABLE %s (%s)", staging, strings.Join(ddl, ", ")),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}

	start := time.Now()
	var total int64
	for _, file := range files {
		n, err := copyFile(ctx, db, staging, names, fields, file)
		if err != nil {
			return err
		}
		total += n
	}

	if err := finalizeTable(ctx, db, table, staging, fields); err != nil {
		return err
	}
	log.Printf("loaded %s: %d rows in %s", table, total, time.Since(start).Round(time.Millisecond))
	return nil
}

func readFields(path string) ([]parquet.Field, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}
	return pf.Schema().Fields(), nil
}

// copyFile streams one parquet fragment into the staging table with the
// COPY protocol.
func copyFile(ctx context.Context, db *sql.DB, staging string, names []string, fields []parquet.Field, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("open parquet %s: %w", path, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(staging, names...))
	if err != nil {
		return 0, err
	}

	rows := parquet.NewReader(pf)
	defer rows.Close()

	var total int64
	buf := make([]parquet.Row, copyBatch)
	args := make([]any, len(fields))
	for {
		n, readErr := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			for i, v := range row {
				arg, err := sqlValue(fields[i], v)
				if err != nil {
					return 0, fmt.Errorf("%s column %s: %w", path, names[i], err)
				}
				args[i] = arg
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return 0, err
			}
			total++
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return 0, fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	// Flush the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, err
	}
	if err := stmt.Close(); err != nil {
		return 0, err
	}
	return total, tx.Commit()
}

// finalizeTable materializes the real table from staging, decoding WKB
// geometry columns and building spatial indexes.
func finalizeTable(ctx context.Context, db *sql.DB, table, staging string, fields []parquet.Field) error {
	selects := make([]string, 0, len(fields))
	var geomCols []string
	for _, f := range fields {
		name := f.Name()
		if isGeometryColumn(name) {
			selects = append(selects, fmt.Sprintf(
				"ST_SetSRID(ST_GeomFromWKB(%s), 4326) AS %s", name, name))
			geomCols = append(geomCols, name)
		} else {
			selects = append(selects, name)
		}
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE %s AS SELECT %s FROM %s",
			table, strings.Join(selects, ", "), staging),
		fmt.Sprintf("DROP TABLE %s", staging),
	}
	for _, col := range geomCols {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE INDEX %s_%s_gist ON %s USING GIST (%s)", table, col, table, col))
	}
	stmts = append(stmts, fmt.Sprintf("ANALYZE %s", table))

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", stmt, err)
		}
	}
	return nil
}

// stagingType maps a parquet leaf to a generic PostgreSQL column type.
// Geometry stays bytea until finalizeTable decodes it.
func stagingType(f parquet.Field) string {
	t := f.Type()
	lt := t.LogicalType()
	switch t.Kind() {
	case parquet.Boolean:
		return "boolean"
	case parquet.Int32, parquet.Int64:
		if lt != nil && lt.Timestamp != nil {
			return "timestamptz"
		}
		if lt != nil && lt.Date != nil {
			return "date"
		}
		return "bigint"
	case parquet.Float, parquet.Double:
		return "double precision"
	default:
		if lt != nil && lt.UTF8 != nil {
			return "text"
		}
		return "bytea"
	}
}

// sqlValue converts a parquet value to a database/sql argument.
func sqlValue(f parquet.Field, v parquet.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	t := f.Type()
	lt := t.LogicalType()
	switch v.Kind() {
	case parquet.Boolean:
		return v.Boolean(), nil
	case parquet.Int32:
		if lt != nil && lt.Date != nil {
			return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32())), nil
		}
		return int64(v.Int32()), nil
	case parquet.Int64:
		if lt != nil && lt.Timestamp != nil {
			return timestampValue(lt, v.Int64()), nil
		}
		return v.Int64(), nil
	case parquet.Float:
		return float64(v.Float()), nil
	case parquet.Double:
		return v.Double(), nil
	case parquet.ByteArray, parquet.FixedLenByteArray:
		if lt != nil && lt.UTF8 != nil {
			return string(v.ByteArray()), nil
		}
		return append([]byte(nil), v.ByteArray()...), nil
	default:
		return nil, fmt.Errorf("unsupported parquet kind %v", v.Kind())
	}
}

func timestampValue(lt *format.LogicalType, ticks int64) time.Time {
	switch {
	case lt.Timestamp.Unit.Millis != nil:
		return time.UnixMilli(ticks).UTC()
	case lt.Timestamp.Unit.Micros != nil:
		return time.UnixMicro(ticks).UTC()
	default:
		return time.Unix(0, ticks).UTC()
	}
}
