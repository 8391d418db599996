package engine

import (
	"context"
	"fmt"

	"github.com/spatialbench/spatialbench-go/internal/lazygeo"
)

// lazyEngine keeps only the dimension tables in memory and streams the
// trip table from parquet on every query.
type lazyEngine struct {
	env *lazygeo.Env
}

func (e *lazyEngine) Name() string { return "lazygeo" }

func (e *lazyEngine) Setup(ctx context.Context, opts Options) error {
	env, err := lazygeo.NewEnv(opts.Paths)
	if err != nil {
		return err
	}
	e.env = env
	return nil
}

func (e *lazyEngine) Execute(ctx context.Context, query string) (int64, error) {
	if e.env == nil {
		return 0, fmt.Errorf("engine not set up")
	}
	f, err := lazygeo.Run(query, e.env)
	if err != nil {
		return 0, err
	}
	return int64(f.NumRows()), nil
}

func (e *lazyEngine) Version() string {
	return "parquet-go " + moduleVersion("github.com/parquet-go/parquet-go")
}

func (e *lazyEngine) Teardown() error {
	e.env = nil
	return nil
}
