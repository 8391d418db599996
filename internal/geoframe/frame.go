// Package geoframe executes the benchmark queries in-process over
// materialized tables, delegating every spatial predicate to the
// simplefeatures geometry library.
package geoframe

import (
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/spatialbench/spatialbench-go/internal/data"
)

// Frame is a materialized query result: named columns over row tuples.
type Frame struct {
	Columns []string
	Rows    [][]any
}

// NumRows returns the number of result rows.
func (f *Frame) NumRows() int { return len(f.Rows) }

// Dataset holds the fully loaded tables the queries operate on, with
// geometry columns decoded once up front.
type Dataset struct {
	Trips     []data.Trip
	Zones     []data.Zone
	Buildings []data.Building
	Customers []data.Customer

	pickups       []geom.Geometry // parallel to Trips
	dropoffs      []geom.Geometry // parallel to Trips
	zoneBounds    []geom.Geometry // parallel to Zones
	buildingGeoms []geom.Geometry // parallel to Buildings
}

// Load materializes the tables the query set touches. The driver and
// vehicle tables are not referenced by any query and stay on disk.
func Load(paths map[string]string) (*Dataset, error) {
	ds := &Dataset{}

	for _, table := range []string{"trip", "zone", "building", "customer"} {
		path, ok := paths[table]
		if !ok {
			return nil, fmt.Errorf("table %s not found in dataset", table)
		}

		var err error
		switch table {
		case "trip":
			ds.Trips, err = data.ReadAll[data.Trip](path)
		case "zone":
			ds.Zones, err = data.ReadAll[data.Zone](path)
		case "building":
			ds.Buildings, err = data.ReadAll[data.Building](path)
		case "customer":
			ds.Customers, err = data.ReadAll[data.Customer](path)
		}
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
	}

	if err := ds.decodeGeometries(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (ds *Dataset) decodeGeometries() error {
	ds.pickups = make([]geom.Geometry, len(ds.Trips))
	ds.dropoffs = make([]geom.Geometry, len(ds.Trips))
	for i, t := range ds.Trips {
		var err error
		if ds.pickups[i], err = DecodeWKB(t.PickupLoc); err != nil {
			return fmt.Errorf("trip %d pickup: %w", t.TripKey, err)
		}
		if ds.dropoffs[i], err = DecodeWKB(t.DropoffLoc); err != nil {
			return fmt.Errorf("trip %d dropoff: %w", t.TripKey, err)
		}
	}

	ds.zoneBounds = make([]geom.Geometry, len(ds.Zones))
	for i, z := range ds.Zones {
		var err error
		if ds.zoneBounds[i], err = DecodeWKB(z.Boundary); err != nil {
			return fmt.Errorf("zone %d: %w", z.ZoneKey, err)
		}
	}

	ds.buildingGeoms = make([]geom.Geometry, len(ds.Buildings))
	for i, b := range ds.Buildings {
		var err error
		if ds.buildingGeoms[i], err = DecodeWKB(b.Boundary); err != nil {
			return fmt.Errorf("building %d: %w", b.BuildingKey, err)
		}
	}

	return nil
}

// customerNames builds a key→name lookup for join queries.
func (ds *Dataset) customerNames() map[int64]string {
	names := make(map[int64]string, len(ds.Customers))
	for _, c := range ds.Customers {
		names[c.CustKey] = c.Name
	}
	return names
}
