// Package dialect holds the SQL text of the twelve benchmark queries.
//
// Spatial SQL is less standardized than the rest of the analytical surface,
// so engines that need different syntax carry a small override table on top
// of the reference text. A dialect is the reference query set plus its
// overrides; nothing deeper than that one level exists.
package dialect

import (
	"fmt"
	"sort"
)

// QueryCount is the number of queries in the benchmark suite.
const QueryCount = 12

// Dialect is a named query set: the reference text with per-query overrides.
type Dialect struct {
	name      string
	overrides map[string]string
}

var dialects = map[string]*Dialect{
	"spatial": {name: "spatial"},
	"duckdb":  {name: "duckdb", overrides: duckdbOverrides},
	"postgis": {name: "postgis", overrides: postgisOverrides},
}

// Get returns the named dialect.
func Get(name string) (*Dialect, error) {
	d, ok := dialects[name]
	if !ok {
		return nil, fmt.Errorf("unknown dialect: %s", name)
	}
	return d, nil
}

// Names returns the registered dialect names in sorted order.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// QueryNames returns q1..q12 in numeric order.
func QueryNames() []string {
	names := make([]string, QueryCount)
	for i := range names {
		names[i] = fmt.Sprintf("q%d", i+1)
	}
	return names
}

// Name returns the dialect name.
func (d *Dialect) Name() string { return d.name }

// Query returns the SQL text for a query in this dialect.
func (d *Dialect) Query(name string) (string, error) {
	if sql, ok := d.overrides[name]; ok {
		return sql, nil
	}
	sql, ok := baseQueries[name]
	if !ok {
		return "", fmt.Errorf("unknown query: %s", name)
	}
	return sql, nil
}

// Queries returns the full query set of this dialect keyed by query name.
func (d *Dialect) Queries() map[string]string {
	out := make(map[string]string, len(baseQueries))
	for name, sql := range baseQueries {
		out[name] = sql
	}
	for name, sql := range d.overrides {
		out[name] = sql
	}
	return out
}
