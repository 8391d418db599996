package engine

import (
	"context"
	"fmt"

	"github.com/spatialbench/spatialbench-go/internal/geoframe"
)

// frameEngine materializes the dataset in memory at setup and runs each
// query as plain Go over decoded geometries.
type frameEngine struct {
	ds *geoframe.Dataset
}

func (e *frameEngine) Name() string { return "geoframe" }

func (e *frameEngine) Setup(ctx context.Context, opts Options) error {
	ds, err := geoframe.Load(opts.Paths)
	if err != nil {
		return err
	}
	e.ds = ds
	return nil
}

func (e *frameEngine) Execute(ctx context.Context, query string) (int64, error) {
	if e.ds == nil {
		return 0, fmt.Errorf("engine not set up")
	}
	f, err := geoframe.Run(query, e.ds)
	if err != nil {
		return 0, err
	}
	return int64(f.NumRows()), nil
}

func (e *frameEngine) Version() string {
	return "simplefeatures " + moduleVersion("github.com/peterstace/simplefeatures")
}

func (e *frameEngine) Teardown() error {
	e.ds = nil
	return nil
}
