package geoframe

import (
	"math"
	"testing"

	"github.com/peterstace/simplefeatures/geom"
)

func mustWKT(t *testing.T, wkt string) geom.Geometry {
	t.Helper()
	g, err := ParseWKT(wkt)
	if err != nil {
		t.Fatalf("ParseWKT(%s): %v", wkt, err)
	}
	return g
}

func TestDist(t *testing.T) {
	a := mustWKT(t, "POINT (0 0)")
	b := mustWKT(t, "POINT (3 4)")
	if d := Dist(a, b); d != 5 {
		t.Errorf("Expected distance 5, got %v", d)
	}

	empty := mustWKT(t, "POINT EMPTY")
	if d := Dist(a, empty); !math.IsInf(d, 1) {
		t.Errorf("Expected +Inf for empty geometry, got %v", d)
	}
}

func TestWithin(t *testing.T) {
	square := mustWKT(t, "POLYGON ((0 0, 10 0, 10 10, 0 10, 0 0))")

	if !Within(mustWKT(t, "POINT (5 5)"), square) {
		t.Error("Expected interior point to be within")
	}
	if Within(mustWKT(t, "POINT (15 5)"), square) {
		t.Error("Expected exterior point not to be within")
	}
}

func TestIntersectionArea(t *testing.T) {
	a := mustWKT(t, "POLYGON ((0 0, 2 0, 2 2, 0 2, 0 0))")
	b := mustWKT(t, "POLYGON ((1 0, 3 0, 3 2, 1 2, 1 0))")

	area, err := IntersectionArea(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(area-2.0) > 1e-9 {
		t.Errorf("Expected overlap area 2, got %v", area)
	}
}

func TestHullArea(t *testing.T) {
	points := make([]geom.Point, 0, 4)
	for _, wkt := range []string{"POINT (0 0)", "POINT (2 0)", "POINT (2 2)", "POINT (0 2)", "POINT (1 1)"} {
		g := mustWKT(t, wkt)
		points = append(points, g.MustAsPoint())
	}
	if area := HullArea(points); math.Abs(area-4.0) > 1e-9 {
		t.Errorf("Expected hull area 4, got %v", area)
	}
}

func TestPointXY(t *testing.T) {
	x, y, err := PointXY(mustWKT(t, "POINT (-111.761 34.8697)"))
	if err != nil {
		t.Fatal(err)
	}
	if x != -111.761 || y != 34.8697 {
		t.Errorf("Expected (-111.761, 34.8697), got (%v, %v)", x, y)
	}

	if _, _, err := PointXY(mustWKT(t, "POLYGON ((0 0, 1 0, 1 1, 0 1, 0 0))")); err == nil {
		t.Error("Expected error for non-point geometry")
	}
}

func TestDecodeWKBRoundTrip(t *testing.T) {
	g := mustWKT(t, "POINT (1 2)")
	decoded, err := DecodeWKB(g.AsBinary())
	if err != nil {
		t.Fatal(err)
	}
	x, y, err := PointXY(decoded)
	if err != nil {
		t.Fatal(err)
	}
	if x != 1 || y != 2 {
		t.Errorf("Expected (1, 2), got (%v, %v)", x, y)
	}

	if _, err := DecodeWKB([]byte{0x00, 0x01}); err == nil {
		t.Error("Expected error for malformed WKB")
	}
}
