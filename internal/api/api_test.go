package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spatialbench/spatialbench-go/internal/bench"
	"github.com/spatialbench/spatialbench-go/internal/config"
	"github.com/spatialbench/spatialbench-go/internal/report"
)

func testConfig(t *testing.T, token string) *config.Config {
	t.Helper()

	dir := t.TempDir()
	suite := bench.NewSuite("duckdb", "v1.2.0", 1.0)
	suite.Append(bench.Result{Query: "q1", Engine: "duckdb", Status: bench.StatusSuccess})
	if _, err := report.Save(filepath.Join(dir, "duckdb_results.json"), "", []bench.Suite{suite}); err != nil {
		t.Fatal(err)
	}

	return &config.Config{
		Benchmark: config.BenchmarkConfig{Timeout: 10 * time.Second, Runs: 3},
		Server: config.ServerConfig{
			WriteTimeout: 30 * time.Second,
			ResultsDir:   dir,
			AuthToken:    token,
		},
	}
}

func TestHealthOpenWithoutToken(t *testing.T) {
	srv := NewServer(testConfig(t, "secret"), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "healthy" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestResultsRequireToken(t *testing.T) {
	srv := NewServer(testConfig(t, "secret"), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/results", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("without token: status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/results", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("with token: status = %d, want 200", rec.Code)
	}

	var suites map[string]bench.Suite
	if err := json.Unmarshal(rec.Body.Bytes(), &suites); err != nil {
		t.Fatal(err)
	}
	if _, ok := suites["duckdb"]; !ok {
		t.Errorf("missing duckdb suite: %v", suites)
	}
}

func TestGetEngineResults(t *testing.T) {
	srv := NewServer(testConfig(t, ""), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/results/duckdb", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/results/sqlite", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown engine: status = %d, want 404", rec.Code)
	}
}

func TestGetSummaryRendersMarkdown(t *testing.T) {
	srv := NewServer(testConfig(t, ""), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/summary", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "text/markdown") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "DuckDB") {
		t.Errorf("summary missing engine name:\n%s", rec.Body.String())
	}
}

func TestRunsWithoutArchive(t *testing.T) {
	srv := NewServer(testConfig(t, ""), nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest("GET", "/api/v1/runs/", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when archive not configured", rec.Code)
	}
}
