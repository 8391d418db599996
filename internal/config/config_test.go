package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Benchmark.Timeout != 10*time.Second {
		t.Errorf("Expected default timeout 10s, got %v", cfg.Benchmark.Timeout)
	}
	if cfg.Benchmark.Runs != 3 {
		t.Errorf("Expected default 3 runs, got %d", cfg.Benchmark.Runs)
	}
	if len(cfg.Benchmark.Engines) == 0 {
		t.Error("Expected default engine list")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SPATIALBENCH_BENCHMARK_RUNS", "5")
	t.Setenv("SPATIALBENCH_POSTGRES_DSN", "postgres://localhost/spatialbench")

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Benchmark.Runs != 5 {
		t.Errorf("Expected runs from environment, got %d", cfg.Benchmark.Runs)
	}
	if cfg.Postgres.DSN != "postgres://localhost/spatialbench" {
		t.Errorf("Expected DSN from environment, got %s", cfg.Postgres.DSN)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "benchmark:\n  timeout: 30s\n  engines: [duckdb]\nredis:\n  addr: localhost:6379\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Benchmark.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout from file, got %v", cfg.Benchmark.Timeout)
	}
	if len(cfg.Benchmark.Engines) != 1 || cfg.Benchmark.Engines[0] != "duckdb" {
		t.Errorf("Expected engines from file, got %v", cfg.Benchmark.Engines)
	}
	if cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("Expected redis addr from file, got %s", cfg.Redis.Addr)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for explicitly named missing config file")
	}
}
