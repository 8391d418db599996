package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spatialbench/spatialbench-go/internal/bench"
	"github.com/spatialbench/spatialbench-go/internal/data"
	"github.com/spatialbench/spatialbench-go/internal/dialect"
	"github.com/spatialbench/spatialbench-go/internal/engine"
	"github.com/spatialbench/spatialbench-go/internal/events"
	"github.com/spatialbench/spatialbench-go/internal/report"
	"github.com/spatialbench/spatialbench-go/internal/results"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the benchmark",
		Long:  "Run the query set against the selected engines, each attempt in an isolated worker process.",
		Args:  cobra.NoArgs,
		RunE:  runBenchmark,
	}

	cmd.Flags().String("data-dir", "", "Directory containing the parquet dataset")
	cmd.Flags().String("engines", "", "Comma-separated engines to benchmark")
	cmd.Flags().String("queries", "", "Comma-separated queries to run (e.g. q1,q2,q3)")
	cmd.Flags().Int("timeout", 0, "Query timeout in seconds")
	cmd.Flags().Int("runs", 0, "Number of runs per query for averaging")
	cmd.Flags().Float64("scale-factor", 0, "Scale factor recorded in results")
	cmd.Flags().StringP("output", "o", "benchmark_results.json", "Results file to write")
	cmd.Flags().String("manifest", "", "Optional YAML run manifest to write")

	return cmd
}

// runManifest is the YAML record of what a run executed, for CI artifacts.
type runManifest struct {
	RunID       string    `yaml:"run_id"`
	DataDir     string    `yaml:"data_dir"`
	Engines     []string  `yaml:"engines"`
	Queries     []string  `yaml:"queries"`
	Timeout     string    `yaml:"timeout"`
	Runs        int       `yaml:"runs"`
	ScaleFactor float64   `yaml:"scale_factor"`
	Output      string    `yaml:"output"`
	StartedAt   time.Time `yaml:"started_at"`
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.Benchmark.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("engines"); v != "" {
		cfg.Benchmark.Engines = strings.Split(v, ",")
	}
	if cmd.Flags().Changed("timeout") {
		v, _ := cmd.Flags().GetInt("timeout")
		cfg.Benchmark.Timeout = time.Duration(v) * time.Second
	}
	if cmd.Flags().Changed("runs") {
		cfg.Benchmark.Runs, _ = cmd.Flags().GetInt("runs")
	}
	if cmd.Flags().Changed("scale-factor") {
		cfg.Benchmark.ScaleFactor, _ = cmd.Flags().GetFloat64("scale-factor")
	}
	output, _ := cmd.Flags().GetString("output")

	queries := dialect.QueryNames()
	if v, _ := cmd.Flags().GetString("queries"); v != "" {
		queries = strings.Split(v, ",")
	}

	paths, err := data.Discover(cfg.Benchmark.DataDir)
	if err != nil {
		return err
	}

	opts := engine.Options{
		Paths:       paths,
		PostgresDSN: cfg.Postgres.DSN,
	}

	runner := bench.NewRunner(bench.Config{
		Timeout: cfg.Benchmark.Timeout,
		Runs:    cfg.Benchmark.Runs,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()

	var publisher *events.Publisher
	if cfg.Redis.Addr != "" {
		publisher = events.NewPublisher(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	}

	if path, _ := cmd.Flags().GetString("manifest"); path != "" {
		manifest := runManifest{
			RunID:       runID,
			DataDir:     cfg.Benchmark.DataDir,
			Engines:     cfg.Benchmark.Engines,
			Queries:     queries,
			Timeout:     cfg.Benchmark.Timeout.String(),
			Runs:        cfg.Benchmark.Runs,
			ScaleFactor: cfg.Benchmark.ScaleFactor,
			Output:      output,
			StartedAt:   time.Now().UTC(),
		}
		buf, err := yaml.Marshal(manifest)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			return fmt.Errorf("write manifest: %w", err)
		}
	}

	if publisher != nil {
		publisher.PublishRunEvent(ctx, events.RunEvent{
			Type:        events.RunStarted,
			RunID:       runID,
			Engines:     cfg.Benchmark.Engines,
			Queries:     queries,
			ScaleFactor: cfg.Benchmark.ScaleFactor,
		})
	}

	log.Printf("run %s: %d queries, timeout %s, %d runs per query",
		runID, len(queries), cfg.Benchmark.Timeout, cfg.Benchmark.Runs)

	var suites []bench.Suite
	for _, engineName := range cfg.Benchmark.Engines {
		engineName = strings.TrimSpace(engineName)
		if _, err := engine.New(engineName); err != nil {
			return err
		}

		fmt.Printf("\nBenchmarking %s\n", engineName)
		suite, err := runner.RunSuite(ctx, engineName, queries, opts, cfg.Benchmark.ScaleFactor,
			func(engineName, query string, result bench.Result, attempts int) {
				printProgress(query, result, attempts)
				if publisher != nil {
					publisher.PublishQueryEvent(ctx, queryEvent(runID, result, attempts))
				}
			})
		suites = append(suites, suite)
		if err != nil {
			log.Printf("run interrupted: %v", err)
			break
		}
	}

	report.PrintSummary(os.Stdout, suites)

	file, err := report.Save(output, runID, suites)
	if err != nil {
		return err
	}
	fmt.Printf("\nResults saved to %s\n", output)

	if cfg.MongoDB.URI != "" {
		store, err := results.NewStore(cfg.MongoDB.URI, cfg.MongoDB.Database)
		if err != nil {
			log.Printf("archive unavailable: %v", err)
		} else {
			defer store.Close(context.Background())
			if err := store.Archive(ctx, file); err != nil {
				log.Printf("archive failed: %v", err)
			}
		}
	}

	if publisher != nil {
		publisher.PublishRunEvent(ctx, events.RunEvent{
			Type:  events.RunFinished,
			RunID: runID,
		})
	}

	return nil
}

func printProgress(query string, result bench.Result, attempts int) {
	switch {
	case result.Status == bench.StatusSuccess && attempts > 1:
		fmt.Printf("  %s... %.2fs avg (%d runs, %d rows)\n",
			query, *result.TimeSeconds, attempts, *result.RowCount)
	case result.Status == bench.StatusSuccess:
		fmt.Printf("  %s... %.2fs (%d rows)\n", query, *result.TimeSeconds, *result.RowCount)
	default:
		msg := ""
		if result.ErrorMessage != nil {
			msg = *result.ErrorMessage
		}
		fmt.Printf("  %s... %s: %s\n", query, strings.ToUpper(result.Status), msg)
	}
}

func queryEvent(runID string, result bench.Result, attempts int) events.QueryEvent {
	event := events.QueryEvent{
		Type:        events.QueryFinished,
		RunID:       runID,
		Engine:      result.Engine,
		Query:       result.Query,
		Status:      result.Status,
		TimeSeconds: result.TimeSeconds,
		RowCount:    result.RowCount,
		Attempts:    attempts,
	}
	if result.ErrorMessage != nil {
		event.ErrorMessage = *result.ErrorMessage
	}
	return event
}
