// Package data locates the benchmark tables on disk and reads their
// Parquet files.
package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Tables lists the benchmark tables in canonical order.
var Tables = []string{"building", "customer", "driver", "trip", "vehicle", "zone"}

// Discover resolves each table under dir to either a fragment directory
// (table/*.parquet) or a single file (table.parquet). A glob over
// table*.parquet is the fallback. Tables with no data are absent from the
// returned map.
func Discover(dir string) (map[string]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("data directory %s: %w", dir, err)
	}

	paths := make(map[string]string)
	for _, table := range Tables {
		tableDir := filepath.Join(dir, table)
		if info, err := os.Stat(tableDir); err == nil && info.IsDir() {
			paths[table] = tableDir
			continue
		}

		single := filepath.Join(dir, table+".parquet")
		if _, err := os.Stat(single); err == nil {
			paths[table] = single
			continue
		}

		matches, err := filepath.Glob(filepath.Join(dir, table+"*.parquet"))
		if err == nil && len(matches) > 0 {
			sort.Strings(matches)
			paths[table] = matches[0]
		}
	}

	return paths, nil
}

// Files expands a resolved table path into its Parquet files, sorted for
// deterministic reads. A file path expands to itself.
func Files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	matches, err := filepath.Glob(filepath.Join(path, "*.parquet"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no parquet files in %s", path)
	}

	sort.Strings(matches)
	return matches, nil
}

// GlobPattern returns a path suitable for engines that read directories
// through a glob, e.g. DuckDB's read_parquet.
func GlobPattern(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, "*.parquet")
	}
	return path
}
