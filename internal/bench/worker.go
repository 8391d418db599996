package bench

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spatialbench/spatialbench-go/internal/engine"
)

// Request is the single message a worker process reads from stdin.
type Request struct {
	Engine         string         `json:"engine"`
	Query          string         `json:"query"`
	TimeoutSeconds float64        `json:"timeout_seconds"`
	Options        engine.Options `json:"options"`
}

// Response is the single message a worker process writes to stdout.
type Response struct {
	Result  Result `json:"result"`
	Version string `json:"version,omitempty"`
}

// RunWorker is the main loop for a query worker process: read one request,
// execute it, write one response. It is called when the binary is invoked
// with the hidden worker subcommand.
func RunWorker(in io.Reader, out io.Writer) error {
	var req Request
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}

	resp := execute(context.Background(), req)

	if err := json.NewEncoder(out).Encode(resp); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return nil
}

func execute(ctx context.Context, req Request) Response {
	eng, err := engine.New(req.Engine)
	if err != nil {
		return Response{Result: errorResult(req, err)}
	}
	defer eng.Teardown()

	if err := eng.Setup(ctx, req.Options); err != nil {
		return Response{Result: errorResult(req, fmt.Errorf("setup: %w", err))}
	}

	timeout := time.Duration(req.TimeoutSeconds * float64(time.Second))
	start := time.Now()
	rowCount, err := eng.Execute(ctx, req.Query)
	elapsed := time.Since(start)
	if err != nil {
		return Response{Result: classify(req, elapsed, timeout, err), Version: eng.Version()}
	}

	return Response{
		Result: Result{
			Query:       req.Query,
			Engine:      req.Engine,
			TimeSeconds: float64Ptr(Round2(elapsed.Seconds())),
			RowCount:    int64Ptr(rowCount),
			Status:      StatusSuccess,
		},
		Version: eng.Version(),
	}
}

// classify turns an execution error into a result. An error surfacing at
// 95% or more of the timeout wall clock is treated as a timeout: drivers
// with native code tend to report interruption as an ordinary error.
func classify(req Request, elapsed, timeout time.Duration, err error) Result {
	if timeout > 0 && elapsed >= time.Duration(float64(timeout)*0.95) {
		return Result{
			Query:       req.Query,
			Engine:      req.Engine,
			TimeSeconds: float64Ptr(timeout.Seconds()),
			Status:      StatusTimeout,
			ErrorMessage: stringPtr(fmt.Sprintf(
				"Query timed out after %gs (original error: %v)", timeout.Seconds(), err)),
		}
	}
	return errorResult(req, err)
}

func errorResult(req Request, err error) Result {
	return Result{
		Query:        req.Query,
		Engine:       req.Engine,
		Status:       StatusError,
		ErrorMessage: stringPtr(err.Error()),
	}
}
