package lazygeo

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/spatialbench/spatialbench-go/internal/data"
	"github.com/spatialbench/spatialbench-go/internal/geoframe"
)

// Env holds the small dimension tables in memory with decoded geometries.
// The trip table stays on disk and is streamed per query.
type Env struct {
	tripPath string

	zones      []data.Zone
	buildings  []data.Building
	customers  []data.Customer
	zoneGeoms  []geom.Geometry
	bldgGeoms  []geom.Geometry
}

// NewEnv loads the zone, building and customer tables and records where
// the trip table lives for later streaming.
func NewEnv(paths map[string]string) (*Env, error) {
	tripPath, ok := paths["trip"]
	if !ok {
		return nil, fmt.Errorf("table trip not found in dataset")
	}
	env := &Env{tripPath: tripPath}

	var err error
	if env.zones, err = data.ReadAll[data.Zone](paths["zone"]); err != nil {
		return nil, fmt.Errorf("load zone: %w", err)
	}
	if env.buildings, err = data.ReadAll[data.Building](paths["building"]); err != nil {
		return nil, fmt.Errorf("load building: %w", err)
	}
	if env.customers, err = data.ReadAll[data.Customer](paths["customer"]); err != nil {
		return nil, fmt.Errorf("load customer: %w", err)
	}

	env.zoneGeoms = make([]geom.Geometry, len(env.zones))
	for i, z := range env.zones {
		if env.zoneGeoms[i], err = geoframe.DecodeWKB(z.Boundary); err != nil {
			return nil, fmt.Errorf("zone %d: %w", z.ZoneKey, err)
		}
	}

	env.bldgGeoms = make([]geom.Geometry, len(env.buildings))
	for i, b := range env.buildings {
		if env.bldgGeoms[i], err = geoframe.DecodeWKB(b.Boundary); err != nil {
			return nil, fmt.Errorf("building %d: %w", b.BuildingKey, err)
		}
	}

	return env, nil
}

func (e *Env) customerNames() map[int64]string {
	names := make(map[int64]string, len(e.customers))
	for _, c := range e.customers {
		names[c.CustKey] = c.Name
	}
	return names
}
