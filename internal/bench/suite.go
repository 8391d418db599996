package bench

import (
	"context"

	"github.com/spatialbench/spatialbench-go/internal/engine"
)

// Progress is notified after every completed query, with the number of
// successful attempts the reported time averages over.
type Progress func(engineName, query string, result Result, attempts int)

// RunSuite executes the given queries against one engine, each attempt in
// its own worker process, and collects the results into a suite.
func (r *Runner) RunSuite(ctx context.Context, engineName string, queries []string, opts engine.Options, scaleFactor float64, progress Progress) (Suite, error) {
	suite := NewSuite(engineName, "", scaleFactor)

	for _, query := range queries {
		if err := ctx.Err(); err != nil {
			return suite, err
		}

		result, version, attempts := r.RunAveraged(ctx, engineName, query, opts)
		if suite.Version == "" && version != "" {
			suite.Version = version
		}
		suite.Append(result)

		if progress != nil {
			progress(engineName, query, result, attempts)
		}
	}

	return suite, nil
}
