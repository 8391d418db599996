package bench

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spatialbench/spatialbench-go/internal/engine"
)

// helperRunner builds a runner whose worker re-executes this test binary
// into TestHelperWorker.
func helperRunner(cfg Config) *Runner {
	cfg.WorkerBinary = os.Args[0]
	cfg.WorkerArgs = []string{"-test.run=TestHelperWorker", "--", "helper-worker"}
	return NewRunner(cfg)
}

// TestHelperWorker is not a real test: it is the worker process the runner
// tests spawn. The trailing argument keeps it inert during a normal test run.
func TestHelperWorker(t *testing.T) {
	if len(os.Args) == 0 || os.Args[len(os.Args)-1] != "helper-worker" {
		return
	}
	defer os.Exit(0)

	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		os.Exit(2)
	}
	enc := json.NewEncoder(os.Stdout)

	switch req.Query {
	case "sleep":
		time.Sleep(time.Minute)

	case "boom":
		enc.Encode(Response{Result: errorResult(req, errors.New("boom: table not found"))})

	case "crash":
		os.Exit(3)

	default:
		// Success. A counter file passed through the options makes each
		// attempt report a distinct time: 1s, 2s, 3s, ...
		seconds := 0.5
		if counter, ok := req.Options.Paths["counter"]; ok {
			n := int64(0)
			if buf, err := os.ReadFile(counter); err == nil {
				n, _ = strconv.ParseInt(strings.TrimSpace(string(buf)), 10, 64)
			}
			n++
			os.WriteFile(counter, []byte(strconv.FormatInt(n, 10)), 0o644)
			seconds = float64(n)
		}
		enc.Encode(Response{
			Result: Result{
				Query:       req.Query,
				Engine:      req.Engine,
				TimeSeconds: float64Ptr(seconds),
				RowCount:    int64Ptr(42),
				Status:      StatusSuccess,
			},
			Version: "helper 1.0",
		})
	}
}

func TestRunQuerySuccess(t *testing.T) {
	r := helperRunner(Config{Timeout: 10 * time.Second, Runs: 1})

	result, version := r.RunQuery(context.Background(), "duckdb", "q1", engine.Options{})

	if result.Status != StatusSuccess {
		t.Fatalf("Expected success, got %s (%v)", result.Status, result.ErrorMessage)
	}
	if result.RowCount == nil || *result.RowCount != 42 {
		t.Errorf("Expected 42 rows, got %v", result.RowCount)
	}
	if result.TimeSeconds == nil || *result.TimeSeconds != 0.5 {
		t.Errorf("Expected 0.5s, got %v", result.TimeSeconds)
	}
	if version != "helper 1.0" {
		t.Errorf("Expected version from worker, got %q", version)
	}
}

func TestRunQueryTimeout(t *testing.T) {
	timeout := 300 * time.Millisecond
	r := helperRunner(Config{Timeout: timeout, Runs: 1, TermGrace: 2 * time.Second, KillGrace: time.Second})

	start := time.Now()
	result, _ := r.RunQuery(context.Background(), "duckdb", "sleep", engine.Options{})
	elapsed := time.Since(start)

	if result.Status != StatusTimeout {
		t.Fatalf("Expected timeout, got %s", result.Status)
	}
	if result.TimeSeconds == nil || *result.TimeSeconds != timeout.Seconds() {
		t.Errorf("Expected time %v, got %v", timeout.Seconds(), result.TimeSeconds)
	}
	if result.ErrorMessage == nil || !strings.Contains(*result.ErrorMessage, "timed out") {
		t.Errorf("Expected timeout message, got %v", result.ErrorMessage)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Runner took %v to enforce a %v timeout", elapsed, timeout)
	}
}

func TestRunQueryError(t *testing.T) {
	r := helperRunner(Config{Timeout: 10 * time.Second, Runs: 1})

	result, _ := r.RunQuery(context.Background(), "duckdb", "boom", engine.Options{})

	if result.Status != StatusError {
		t.Fatalf("Expected error, got %s", result.Status)
	}
	if result.ErrorMessage == nil || !strings.Contains(*result.ErrorMessage, "boom: table not found") {
		t.Errorf("Expected original error message preserved, got %v", result.ErrorMessage)
	}
	if result.TimeSeconds != nil {
		t.Errorf("Expected no time for an error, got %v", *result.TimeSeconds)
	}
}

func TestRunQueryCrashIsNotTimeout(t *testing.T) {
	r := helperRunner(Config{Timeout: 10 * time.Second, Runs: 1})

	result, _ := r.RunQuery(context.Background(), "duckdb", "crash", engine.Options{})

	if result.Status != StatusError {
		t.Fatalf("Expected error for crashed worker, got %s", result.Status)
	}
	if result.ErrorMessage == nil || !strings.Contains(*result.ErrorMessage, "crashed") {
		t.Errorf("Expected crash message, got %v", result.ErrorMessage)
	}
	if !strings.Contains(*result.ErrorMessage, "exit code: 3") {
		t.Errorf("Expected exit code in message, got %v", *result.ErrorMessage)
	}
}

func TestRunAveraged(t *testing.T) {
	counter := filepath.Join(t.TempDir(), "counter")
	opts := engine.Options{Paths: map[string]string{"counter": counter}}
	r := helperRunner(Config{Timeout: 10 * time.Second, Runs: 3})

	result, _, attempts := r.RunAveraged(context.Background(), "duckdb", "q1", opts)

	if result.Status != StatusSuccess {
		t.Fatalf("Expected success, got %s", result.Status)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	// Attempts reported 1s, 2s and 3s.
	if result.TimeSeconds == nil || *result.TimeSeconds != 2.0 {
		t.Errorf("Expected mean 2.0s, got %v", result.TimeSeconds)
	}
	if result.RowCount == nil || *result.RowCount != 42 {
		t.Errorf("Expected row count from first attempt, got %v", result.RowCount)
	}
}

func TestRunAveragedFirstFailureSkipsRetries(t *testing.T) {
	r := helperRunner(Config{Timeout: 10 * time.Second, Runs: 3})

	result, _, attempts := r.RunAveraged(context.Background(), "duckdb", "boom", engine.Options{})

	if result.Status != StatusError {
		t.Fatalf("Expected error, got %s", result.Status)
	}
	if attempts != 1 {
		t.Errorf("Expected a single attempt after failure, got %d", attempts)
	}
}

func TestClassifyNearTimeoutAsTimeout(t *testing.T) {
	req := Request{Engine: "duckdb", Query: "q3"}
	timeout := 10 * time.Second

	result := classify(req, 9600*time.Millisecond, timeout, errors.New("interrupted"))
	if result.Status != StatusTimeout {
		t.Fatalf("Expected timeout at 96%% of deadline, got %s", result.Status)
	}
	if result.TimeSeconds == nil || *result.TimeSeconds != 10.0 {
		t.Errorf("Expected time pinned to timeout, got %v", result.TimeSeconds)
	}
	if !strings.Contains(*result.ErrorMessage, "original error: interrupted") {
		t.Errorf("Expected original error preserved, got %v", *result.ErrorMessage)
	}

	result = classify(req, time.Second, timeout, errors.New("interrupted"))
	if result.Status != StatusError {
		t.Errorf("Expected plain error far from deadline, got %s", result.Status)
	}
}

func TestRunSuite(t *testing.T) {
	r := helperRunner(Config{Timeout: 10 * time.Second, Runs: 1})

	var progressed []string
	suite, err := r.RunSuite(context.Background(), "duckdb", []string{"q1", "boom"}, engine.Options{}, 1.0,
		func(engineName, query string, result Result, attempts int) {
			progressed = append(progressed, fmt.Sprintf("%s:%s", query, result.Status))
		})
	if err != nil {
		t.Fatalf("RunSuite: %v", err)
	}

	if len(suite.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(suite.Results))
	}
	if suite.Version != "helper 1.0" {
		t.Errorf("Expected version from worker, got %q", suite.Version)
	}
	if suite.TotalTime != 0.5 {
		t.Errorf("Expected total time over successes only, got %v", suite.TotalTime)
	}
	if progressed[0] != "q1:success" || progressed[1] != "boom:error" {
		t.Errorf("Unexpected progress callbacks: %v", progressed)
	}
}
