// Package bench defines the benchmark result model and runs each query
// attempt in an isolated worker process with a hard timeout.
package bench

import (
	"math"
	"time"
)

// Benchmark identifies the suite in result files.
const Benchmark = "spatialbench"

// Version is the harness version recorded in result files.
const Version = "0.1.0"

// Statuses of a single query attempt. Status determines which other
// fields of a Result are populated.
const (
	StatusSuccess = "success"
	StatusTimeout = "timeout"
	StatusError   = "error"
)

// Result is the outcome of a single query attempt against one engine.
type Result struct {
	Query        string   `json:"query"`
	Engine       string   `json:"engine"`
	TimeSeconds  *float64 `json:"time_seconds"`
	RowCount     *int64   `json:"row_count"`
	Status       string   `json:"status"`
	ErrorMessage *string  `json:"error_message"`
}

// Suite holds the results of running the full query set against one engine.
type Suite struct {
	Engine      string   `json:"engine"`
	Version     string   `json:"version"`
	ScaleFactor float64  `json:"scale_factor"`
	Timestamp   string   `json:"timestamp"`
	TotalTime   float64  `json:"total_time"`
	Results     []Result `json:"results"`
}

// File is the top-level shape of a benchmark results file.
type File struct {
	Benchmark   string  `json:"benchmark"`
	Version     string  `json:"version"`
	RunID       string  `json:"run_id"`
	GeneratedAt string  `json:"generated_at"`
	Results     []Suite `json:"results"`
}

// NewSuite creates an empty suite stamped with the current time.
func NewSuite(engine, version string, scaleFactor float64) Suite {
	return Suite{
		Engine:      engine,
		Version:     version,
		ScaleFactor: scaleFactor,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
}

// Append records a result, accumulating total time for successes.
func (s *Suite) Append(r Result) {
	s.Results = append(s.Results, r)
	if r.Status == StatusSuccess && r.TimeSeconds != nil {
		s.TotalTime += *r.TimeSeconds
	}
}

// Round2 rounds a duration in seconds to two decimals, matching the
// precision recorded in result files.
func Round2(seconds float64) float64 {
	return math.Round(seconds*100) / 100
}

func float64Ptr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64       { return &v }
func stringPtr(v string) *string    { return &v }
