// Package report persists benchmark results as JSON and renders the
// console and markdown summaries.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/spatialbench/spatialbench-go/internal/bench"
)

// Save writes a results file containing the given suites. A fresh run ID
// is generated when none is given.
func Save(path, runID string, suites []bench.Suite) (*bench.File, error) {
	if runID == "" {
		runID = uuid.NewString()
	}
	file := &bench.File{
		Benchmark:   bench.Benchmark,
		Version:     bench.Version,
		RunID:       runID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Results:     suites,
	}

	buf, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return nil, fmt.Errorf("write results: %w", err)
	}
	return file, nil
}

// LoadDir reads every *_results.json file in a directory and indexes the
// suites by engine. A later file wins when two carry the same engine.
func LoadDir(dir string) (map[string]bench.Suite, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*_results.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	suites := make(map[string]bench.Suite)
	for _, path := range paths {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var file bench.File
		if err := json.Unmarshal(buf, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		for _, suite := range file.Results {
			suites[suite.Engine] = suite
		}
	}
	return suites, nil
}

// queryOrder sorts query names numerically: q1, q2, ..., q10.
func queryOrder(queries []string) {
	sort.Slice(queries, func(i, j int) bool {
		a, _ := strconv.Atoi(queries[i][1:])
		b, _ := strconv.Atoi(queries[j][1:])
		return a < b
	})
}

// allQueries collects the union of query names across suites in order.
func allQueries(suites map[string]bench.Suite) []string {
	seen := make(map[string]bool)
	var queries []string
	for _, suite := range suites {
		for _, r := range suite.Results {
			if !seen[r.Query] {
				seen[r.Query] = true
				queries = append(queries, r.Query)
			}
		}
	}
	queryOrder(queries)
	return queries
}

// engineNames lists the engines with results, sorted.
func engineNames(suites map[string]bench.Suite) []string {
	names := make([]string, 0, len(suites))
	for name := range suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resultIndex builds an engine→query→result lookup.
func resultIndex(suites map[string]bench.Suite) map[string]map[string]bench.Result {
	index := make(map[string]map[string]bench.Result, len(suites))
	for engine, suite := range suites {
		byQuery := make(map[string]bench.Result, len(suite.Results))
		for _, r := range suite.Results {
			byQuery[r.Query] = r
		}
		index[engine] = byQuery
	}
	return index
}
