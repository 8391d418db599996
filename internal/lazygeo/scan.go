// Package lazygeo executes the benchmark queries with streaming parquet
// scans. The trip table is never fully materialized: each query declares a
// reduced row struct carrying only the columns it reads, and aggregates are
// folded batch by batch during the scan.
package lazygeo

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/spatialbench/spatialbench-go/internal/data"
)

const batchSize = 8192

// scan streams every row of a table through fn in batches. Only the
// columns declared on T are read from disk.
func scan[T any](path string, fn func(rows []T) error) error {
	files, err := data.Files(path)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := scanFile(file, fn); err != nil {
			return err
		}
	}
	return nil
}

func scanFile[T any](path string, fn func([]T) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := parquet.NewGenericReader[T](f)
	defer r.Close()

	buf := make([]T, batchSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			if err := fn(buf[:n]); err != nil {
				return err
			}
		}
		if readErr == io.EOF {
			return nil
		}
		if readErr != nil {
			return fmt.Errorf("read %s: %w", path, readErr)
		}
	}
}
