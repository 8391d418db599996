package lazygeo

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/spatialbench/spatialbench-go/internal/data"
	"github.com/spatialbench/spatialbench-go/internal/geoframe"
)

func pointWKB(t *testing.T, x, y float64) []byte {
	t.Helper()
	g, err := geoframe.ParseWKT(fmt.Sprintf("POINT (%g %g)", x, y))
	if err != nil {
		t.Fatal(err)
	}
	return g.AsBinary()
}

func squareWKB(t *testing.T, x, y, side float64) []byte {
	t.Helper()
	wkt := fmt.Sprintf("POLYGON ((%g %g, %g %g, %g %g, %g %g, %g %g))",
		x, y, x+side, y, x+side, y+side, x, y+side, x, y)
	g, err := geoframe.ParseWKT(wkt)
	if err != nil {
		t.Fatal(err)
	}
	return g.AsBinary()
}

func writeTable[T any](t *testing.T, path string, rows []T) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := parquet.NewGenericWriter[T](f)
	if _, err := w.Write(rows); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

// testEnv writes a small dataset to disk so queries exercise the real
// streaming path.
func testEnv(t *testing.T, trips []data.Trip, zones []data.Zone, buildings []data.Building, customers []data.Customer) *Env {
	t.Helper()
	dir := t.TempDir()

	paths := map[string]string{
		"trip":     filepath.Join(dir, "trip.parquet"),
		"zone":     filepath.Join(dir, "zone.parquet"),
		"building": filepath.Join(dir, "building.parquet"),
		"customer": filepath.Join(dir, "customer.parquet"),
	}
	writeTable(t, paths["trip"], trips)
	writeTable(t, paths["zone"], zones)
	writeTable(t, paths["building"], buildings)
	writeTable(t, paths["customer"], customers)

	env, err := NewEnv(paths)
	if err != nil {
		t.Fatal(err)
	}
	return env
}

func TestQ2StreamsTripScan(t *testing.T) {
	start := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	trips := []data.Trip{
		{TripKey: 1, PickupLoc: pointWKB(t, 1, 1), DropoffLoc: pointWKB(t, 5, 5), PickupTime: start, DropoffTime: start},
		{TripKey: 2, PickupLoc: pointWKB(t, 2, 2), DropoffLoc: pointWKB(t, 5, 5), PickupTime: start, DropoffTime: start},
		{TripKey: 3, PickupLoc: pointWKB(t, 20, 20), DropoffLoc: pointWKB(t, 5, 5), PickupTime: start, DropoffTime: start},
	}
	zones := []data.Zone{
		{ZoneKey: 1, Name: "Coconino County", Boundary: squareWKB(t, 0, 0, 10)},
	}
	buildings := []data.Building{
		{BuildingKey: 1, Name: "B1", Boundary: squareWKB(t, 0, 0, 1)},
	}
	customers := []data.Customer{{CustKey: 1, Name: "Customer#1"}}

	env := testEnv(t, trips, zones, buildings, customers)

	f, err := Run("q2", env)
	if err != nil {
		t.Fatal(err)
	}
	if count := f.Rows[0][0].(int64); count != 2 {
		t.Errorf("Expected 2 pickups in zone, got %d", count)
	}
}

func TestQ4BoundedHeapKeepsHighestTips(t *testing.T) {
	start := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	// 1500 trips in zone 1, tips 1..1500; the top 1000 are tips 501..1500.
	// 10 trips in zone 2 with tiny tips that must not survive the heap.
	var trips []data.Trip
	for i := 1; i <= 1500; i++ {
		trips = append(trips, data.Trip{
			TripKey: int64(i), Tip: float64(i),
			PickupLoc: pointWKB(t, 1, 1), DropoffLoc: pointWKB(t, 1, 1),
			PickupTime: start, DropoffTime: start,
		})
	}
	for i := 0; i < 10; i++ {
		trips = append(trips, data.Trip{
			TripKey: int64(10000 + i), Tip: 0.01,
			PickupLoc: pointWKB(t, 21, 21), DropoffLoc: pointWKB(t, 21, 21),
			PickupTime: start, DropoffTime: start,
		})
	}
	zones := []data.Zone{
		{ZoneKey: 1, Name: "high", Boundary: squareWKB(t, 0, 0, 10)},
		{ZoneKey: 2, Name: "low", Boundary: squareWKB(t, 20, 20, 10)},
	}
	buildings := []data.Building{{BuildingKey: 1, Name: "B1", Boundary: squareWKB(t, 0, 0, 1)}}
	customers := []data.Customer{{CustKey: 1, Name: "Customer#1"}}

	env := testEnv(t, trips, zones, buildings, customers)

	f, err := Run("q4", env)
	if err != nil {
		t.Fatal(err)
	}
	if f.NumRows() != 1 {
		t.Fatalf("Expected only the high-tip zone, got %d rows", f.NumRows())
	}
	row := f.Rows[0]
	if row[0].(int64) != 1 {
		t.Errorf("Expected zone 1, got %v", row[0])
	}
	if count := row[2].(int64); count != 1000 {
		t.Errorf("Expected 1000 top-tip trips in zone, got %d", count)
	}
}

func TestLazyMatchesEagerOnQ9(t *testing.T) {
	start := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	trips := []data.Trip{
		{TripKey: 1, PickupLoc: pointWKB(t, 0, 0), DropoffLoc: pointWKB(t, 1, 1), PickupTime: start, DropoffTime: start},
	}
	zones := []data.Zone{{ZoneKey: 1, Name: "z", Boundary: squareWKB(t, 0, 0, 10)}}
	buildings := []data.Building{
		{BuildingKey: 1, Name: "A", Boundary: squareWKB(t, 0, 0, 2)},
		{BuildingKey: 2, Name: "B", Boundary: squareWKB(t, 1, 0, 2)},
	}
	customers := []data.Customer{{CustKey: 1, Name: "Customer#1"}}

	env := testEnv(t, trips, zones, buildings, customers)

	lazy, err := Run("q9", env)
	if err != nil {
		t.Fatal(err)
	}

	ds, err := geoframe.Load(map[string]string{
		"trip":     filepath.Join(filepath.Dir(env.tripPath), "trip.parquet"),
		"zone":     filepath.Join(filepath.Dir(env.tripPath), "zone.parquet"),
		"building": filepath.Join(filepath.Dir(env.tripPath), "building.parquet"),
		"customer": filepath.Join(filepath.Dir(env.tripPath), "customer.parquet"),
	})
	if err != nil {
		t.Fatal(err)
	}
	eager, err := geoframe.Run("q9", ds)
	if err != nil {
		t.Fatal(err)
	}

	if lazy.NumRows() != eager.NumRows() {
		t.Fatalf("Lazy and eager row counts differ: %d vs %d", lazy.NumRows(), eager.NumRows())
	}
	if lazy.Rows[0][5] != eager.Rows[0][5] {
		t.Errorf("IoU differs: %v vs %v", lazy.Rows[0][5], eager.Rows[0][5])
	}
}

func TestNewEnvMissingTrip(t *testing.T) {
	if _, err := NewEnv(map[string]string{}); err == nil {
		t.Error("Expected error when trip table is missing")
	}
}
