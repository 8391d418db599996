// Package engine defines the query engines under benchmark and a registry
// to construct them by name.
package engine

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
)

// Options carries everything an engine needs to attach to the dataset.
type Options struct {
	// Paths maps table name to a parquet file or directory, as produced
	// by data.Discover.
	Paths map[string]string `json:"paths"`

	// PostgresDSN is the connection string for the postgis engine. Other
	// engines ignore it.
	PostgresDSN string `json:"postgres_dsn,omitempty"`
}

// Engine runs benchmark queries against one backend. Setup must be called
// before Execute; Teardown releases connections and in-memory tables.
type Engine interface {
	Name() string
	Setup(ctx context.Context, opts Options) error
	Execute(ctx context.Context, query string) (rowCount int64, err error)
	Version() string
	Teardown() error
}

var builders = map[string]func() Engine{
	"duckdb":   func() Engine { return &duckDBEngine{} },
	"postgis":  func() Engine { return &postgisEngine{} },
	"geoframe": func() Engine { return &frameEngine{} },
	"lazygeo":  func() Engine { return &lazyEngine{} },
}

// New constructs the named engine.
func New(name string) (Engine, error) {
	builder, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q (have %v)", name, Names())
	}
	return builder(), nil
}

// Names lists the registered engines in stable order.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// moduleVersion reports the version of a dependency as recorded in the
// build info, for engines whose backend is a Go library.
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path == path {
			return dep.Version
		}
	}
	return "unknown"
}
