package bench

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/spatialbench/spatialbench-go/internal/engine"
)

var (
	ErrInterrupted = errors.New("benchmark interrupted")
)

// Config holds runner configuration.
type Config struct {
	// Timeout is the hard per-attempt limit. The worker process is
	// terminated when it is exceeded.
	Timeout time.Duration `mapstructure:"timeout"`

	// Runs is the number of attempts per query when the first succeeds;
	// the reported time is the mean over successful attempts.
	Runs int `mapstructure:"runs"`

	// WorkerBinary is the binary to spawn per attempt. If empty, the
	// current executable re-invokes itself in worker mode.
	WorkerBinary string `mapstructure:"worker_binary"`

	// WorkerArgs are the arguments selecting worker mode on the binary.
	WorkerArgs []string `mapstructure:"worker_args"`

	// TermGrace is how long a timed-out worker gets to exit after the
	// termination signal before it is killed.
	TermGrace time.Duration `mapstructure:"term_grace"`

	// KillGrace is how long to wait for the process to be reaped after
	// the kill.
	KillGrace time.Duration `mapstructure:"kill_grace"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:    10 * time.Second,
		Runs:       3,
		WorkerArgs: []string{"worker"},
		TermGrace:  5 * time.Second,
		KillGrace:  2 * time.Second,
	}
}

// Runner executes query attempts in isolated worker processes so that a
// hung or crashing engine can never take the harness down with it.
type Runner struct {
	cfg Config
}

// NewRunner creates a runner. Zero grace periods fall back to defaults.
func NewRunner(cfg Config) *Runner {
	def := DefaultConfig()
	if cfg.TermGrace <= 0 {
		cfg.TermGrace = def.TermGrace
	}
	if cfg.KillGrace <= 0 {
		cfg.KillGrace = def.KillGrace
	}
	if cfg.Runs <= 0 {
		cfg.Runs = 1
	}
	if len(cfg.WorkerArgs) == 0 {
		cfg.WorkerArgs = def.WorkerArgs
	}
	return &Runner{cfg: cfg}
}

// RunQuery executes one query attempt in a fresh worker process. The
// returned version string is empty when the worker never reported one.
func (r *Runner) RunQuery(ctx context.Context, engineName, query string, opts engine.Options) (Result, string) {
	req := Request{
		Engine:         engineName,
		Query:          query,
		TimeoutSeconds: r.cfg.Timeout.Seconds(),
		Options:        opts,
	}

	binary := r.cfg.WorkerBinary
	if binary == "" {
		binary = os.Args[0]
	}

	cmd := exec.Command(binary, r.cfg.WorkerArgs...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errorResult(req, err), ""
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errorResult(req, err), ""
	}

	if err := cmd.Start(); err != nil {
		return errorResult(req, fmt.Errorf("start worker: %w", err)), ""
	}

	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)
	go func() {
		if err := json.NewEncoder(stdin).Encode(req); err != nil {
			errCh <- err
			return
		}
		stdin.Close()

		var resp Response
		if err := json.NewDecoder(stdout).Decode(&resp); err != nil {
			errCh <- err
			return
		}
		respCh <- resp
	}()

	timer := time.NewTimer(r.cfg.Timeout)
	defer timer.Stop()

	select {
	case resp := <-respCh:
		cmd.Wait()
		return resp.Result, resp.Version

	case <-errCh:
		// The worker exited (or closed its pipes) without producing a
		// response: a crash, distinct from a timeout and from an error
		// the engine reported itself.
		err := cmd.Wait()
		return crashedResult(req, err, &stderr), ""

	case <-timer.C:
		r.terminate(cmd)
		return timeoutResult(req, r.cfg.Timeout), ""

	case <-ctx.Done():
		r.terminate(cmd)
		return errorResult(req, ErrInterrupted), ""
	}
}

// RunAveraged runs a query up to cfg.Runs times. If the first attempt
// succeeds, the remaining attempts are executed and the reported time is
// the mean over the successful ones, stopping at the first failure. The
// row count is taken from the first attempt.
func (r *Runner) RunAveraged(ctx context.Context, engineName, query string, opts engine.Options) (Result, string, int) {
	result, version := r.RunQuery(ctx, engineName, query, opts)
	if result.Status != StatusSuccess || r.cfg.Runs <= 1 {
		return result, version, 1
	}

	times := []float64{*result.TimeSeconds}
	for attempt := 2; attempt <= r.cfg.Runs; attempt++ {
		next, _ := r.RunQuery(ctx, engineName, query, opts)
		if next.Status != StatusSuccess {
			break
		}
		times = append(times, *next.TimeSeconds)
	}

	var sum float64
	for _, t := range times {
		sum += t
	}
	result.TimeSeconds = float64Ptr(Round2(sum / float64(len(times))))
	return result, version, len(times)
}

// terminate asks the worker to exit, escalating to a kill when it does
// not comply within the grace period.
func (r *Runner) terminate(cmd *exec.Cmd) {
	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()

	signalTerm(cmd.Process)
	select {
	case <-done:
		return
	case <-time.After(r.cfg.TermGrace):
	}

	cmd.Process.Kill()
	select {
	case <-done:
	case <-time.After(r.cfg.KillGrace):
	}
}

func timeoutResult(req Request, timeout time.Duration) Result {
	return Result{
		Query:       req.Query,
		Engine:      req.Engine,
		TimeSeconds: float64Ptr(timeout.Seconds()),
		Status:      StatusTimeout,
		ErrorMessage: stringPtr(fmt.Sprintf(
			"Query %s timed out after %g seconds (process killed)", req.Query, timeout.Seconds())),
	}
}

func crashedResult(req Request, waitErr error, stderr *bytes.Buffer) Result {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		exitCode = exitErr.ExitCode()
	} else if waitErr == nil {
		exitCode = 0
	}

	msg := fmt.Sprintf("Query %s crashed (worker exit code: %d)", req.Query, exitCode)
	if s := stderr.String(); s != "" {
		msg = fmt.Sprintf("%s: %s", msg, truncate(s, 512))
	}
	return Result{
		Query:        req.Query,
		Engine:       req.Engine,
		Status:       StatusError,
		ErrorMessage: stringPtr(msg),
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
