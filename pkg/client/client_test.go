package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/api/v1/results", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "invalid or missing token"})
			return
		}
		secs := 0.5
		rows := int64(10)
		json.NewEncoder(w).Encode(map[string]Suite{
			"duckdb": {
				Engine:  "duckdb",
				Version: "v1.2.0",
				Results: []Result{{
					Query:       "q1",
					Engine:      "duckdb",
					TimeSeconds: &secs,
					RowCount:    &rows,
					Status:      "success",
				}},
			},
		})
	})
	mux.HandleFunc("/api/v1/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "5" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "unexpected limit"})
			return
		}
		json.NewEncoder(w).Encode([]Run{{RunID: "abc", Benchmark: "spatialbench"}})
	})
	mux.HandleFunc("/api/v1/runs/missing", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "run not found"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	c := NewClient(Config{BaseURL: srv.URL})

	if err := c.Health(context.Background()); err != nil {
		t.Fatalf("Health: %v", err)
	}
}

func TestListResultsSendsToken(t *testing.T) {
	srv := testServer(t)
	c := NewClient(Config{BaseURL: srv.URL, Token: "tok"})

	suites, err := c.ListResults(context.Background())
	if err != nil {
		t.Fatalf("ListResults: %v", err)
	}
	suite, ok := suites["duckdb"]
	if !ok {
		t.Fatal("missing duckdb suite")
	}
	if len(suite.Results) != 1 || suite.Results[0].Query != "q1" {
		t.Errorf("unexpected results: %+v", suite.Results)
	}
	if suite.Results[0].TimeSeconds == nil || *suite.Results[0].TimeSeconds != 0.5 {
		t.Errorf("time_seconds not decoded: %+v", suite.Results[0])
	}
}

func TestListResultsUnauthorized(t *testing.T) {
	srv := testServer(t)
	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.ListResults(context.Background())
	if err == nil {
		t.Fatal("expected error without token")
	}
	if !strings.Contains(err.Error(), "invalid or missing token") {
		t.Errorf("error = %v, want server message", err)
	}
}

func TestListRuns(t *testing.T) {
	srv := testServer(t)
	c := NewClient(Config{BaseURL: srv.URL})

	runs, err := c.ListRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "abc" {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestGetRunNotFound(t *testing.T) {
	srv := testServer(t)
	c := NewClient(Config{BaseURL: srv.URL})

	_, err := c.GetRun(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for missing run")
	}
	if !strings.Contains(err.Error(), "run not found") {
		t.Errorf("error = %v, want run not found", err)
	}
}
