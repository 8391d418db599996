package geoframe

import (
	"fmt"
	"math"

	"github.com/peterstace/simplefeatures/geom"
)

// Fixed geometries shared by the queries, in the same WKT the SQL dialects
// embed as literals.
const (
	SedonaCenterWKT = "POINT (-111.7610 34.8697)"
	SedonaBoxWKT    = "POLYGON((-111.9060 34.7347, -111.6160 34.7347, -111.6160 35.0047, -111.9060 35.0047, -111.9060 34.7347))"
	RegionBoxWKT    = "POLYGON((-112.2110 34.4197, -111.3110 34.4197, -111.3110 35.3197, -112.2110 35.3197, -112.2110 34.4197))"
)

// DecodeWKB parses a WKB-encoded geometry column value.
func DecodeWKB(wkb []byte) (geom.Geometry, error) {
	g, err := geom.UnmarshalWKB(wkb)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("decode wkb: %w", err)
	}
	return g, nil
}

// ParseWKT parses a WKT literal.
func ParseWKT(wkt string) (geom.Geometry, error) {
	g, err := geom.UnmarshalWKT(wkt)
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("parse wkt: %w", err)
	}
	return g, nil
}

// Dist returns the planar distance between two geometries. Empty geometry
// pairs report an infinite distance so they never satisfy a radius filter.
func Dist(a, b geom.Geometry) float64 {
	d, ok := geom.Distance(a, b)
	if !ok {
		return math.Inf(1)
	}
	return d
}

// Intersects reports whether two geometries share any point.
func Intersects(a, b geom.Geometry) bool {
	return geom.Intersects(a, b)
}

// Within reports whether a lies fully inside b. Predicate failures on
// exotic inputs count as non-containment.
func Within(a, b geom.Geometry) bool {
	ok, err := geom.Within(a, b)
	return err == nil && ok
}

// Area returns the planar area of a geometry; zero for non-areal inputs.
func Area(g geom.Geometry) float64 {
	return g.Area()
}

// IntersectionArea returns the area of the overlap of two geometries.
func IntersectionArea(a, b geom.Geometry) (float64, error) {
	overlap, err := geom.Intersection(a, b)
	if err != nil {
		return 0, fmt.Errorf("intersection: %w", err)
	}
	return overlap.Area(), nil
}

// HullArea returns the area of the convex hull over a set of points.
func HullArea(points []geom.Point) float64 {
	mp := geom.NewMultiPoint(points)
	return mp.AsGeometry().ConvexHull().Area()
}

// PointXY extracts the coordinates of a WKB point geometry.
func PointXY(g geom.Geometry) (x, y float64, err error) {
	if !g.IsPoint() {
		return 0, 0, fmt.Errorf("expected point geometry, got %s", g.Type())
	}
	xy, ok := g.MustAsPoint().XY()
	if !ok {
		return 0, 0, fmt.Errorf("empty point geometry")
	}
	return xy.X, xy.Y, nil
}
