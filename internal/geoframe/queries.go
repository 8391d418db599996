package geoframe

import (
	"fmt"
	"sort"
	"time"

	"github.com/peterstace/simplefeatures/geom"
)

var queries = map[string]func(*Dataset) (*Frame, error){
	"q1":  q1,
	"q2":  q2,
	"q3":  q3,
	"q4":  q4,
	"q5":  q5,
	"q6":  q6,
	"q7":  q7,
	"q8":  q8,
	"q9":  q9,
	"q10": q10,
	"q11": q11,
	"q12": q12,
}

// Run executes one benchmark query by name.
func Run(name string, ds *Dataset) (*Frame, error) {
	fn, ok := queries[name]
	if !ok {
		return nil, fmt.Errorf("query %s not found", name)
	}
	return fn(ds)
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func durationSeconds(from, to time.Time) float64 {
	return to.Sub(from).Seconds()
}

// descNullsLast orders *float64 values descending with nil values last,
// matching ORDER BY ... DESC NULLS LAST.
func descNullsLast(a, b *float64) (less, equal bool) {
	switch {
	case a == nil && b == nil:
		return false, true
	case a == nil:
		return false, false
	case b == nil:
		return true, false
	case *a != *b:
		return *a > *b, false
	default:
		return false, true
	}
}

// q1: trips starting within 50km of Sedona city center, ordered by distance.
func q1(ds *Dataset) (*Frame, error) {
	center, err := ParseWKT(SedonaCenterWKT)
	if err != nil {
		return nil, err
	}

	type row struct {
		tripKey    int64
		lon, lat   float64
		pickupTime time.Time
		dist       float64
	}

	var rows []row
	for i, t := range ds.Trips {
		d := Dist(ds.pickups[i], center)
		if d > 0.45 {
			continue
		}
		lon, lat, err := PointXY(ds.pickups[i])
		if err != nil {
			return nil, fmt.Errorf("trip %d: %w", t.TripKey, err)
		}
		rows = append(rows, row{t.TripKey, lon, lat, t.PickupTime, d})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].dist != rows[j].dist {
			return rows[i].dist < rows[j].dist
		}
		return rows[i].tripKey < rows[j].tripKey
	})

	f := &Frame{Columns: []string{"t_tripkey", "pickup_lon", "pickup_lat", "t_pickuptime", "distance_to_center"}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []any{r.tripKey, r.lon, r.lat, r.pickupTime, r.dist})
	}
	return f, nil
}

// q2: count trips starting within the Coconino County zone.
func q2(ds *Dataset) (*Frame, error) {
	var county geom.Geometry
	found := false
	for i, z := range ds.Zones {
		if z.Name == "Coconino County" {
			county = ds.zoneBounds[i]
			found = true
			break
		}
	}

	count := int64(0)
	if found {
		for i := range ds.Trips {
			if Intersects(ds.pickups[i], county) {
				count++
			}
		}
	}

	return &Frame{
		Columns: []string{"trip_count_in_coconino_county"},
		Rows:    [][]any{{count}},
	}, nil
}

// q3: monthly trip statistics within 5km of the 10km Sedona bounding box.
func q3(ds *Dataset) (*Frame, error) {
	box, err := ParseWKT(SedonaBoxWKT)
	if err != nil {
		return nil, err
	}

	type agg struct {
		trips       int64
		sumDistance float64
		sumDuration float64
		sumFare     float64
	}
	byMonth := make(map[time.Time]*agg)

	for i, t := range ds.Trips {
		if Dist(ds.pickups[i], box) > 0.045 {
			continue
		}
		m := monthOf(t.PickupTime)
		a := byMonth[m]
		if a == nil {
			a = &agg{}
			byMonth[m] = a
		}
		a.trips++
		a.sumDistance += t.Distance
		a.sumDuration += durationSeconds(t.PickupTime, t.DropoffTime)
		a.sumFare += t.Fare
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	f := &Frame{Columns: []string{"pickup_month", "total_trips", "avg_distance", "avg_duration", "avg_fare"}}
	for _, m := range months {
		a := byMonth[m]
		n := float64(a.trips)
		f.Rows = append(f.Rows, []any{m, a.trips, a.sumDistance / n, a.sumDuration / n, a.sumFare / n})
	}
	return f, nil
}

// q4: zone distribution of the top 1000 trips by tip amount.
func q4(ds *Dataset) (*Frame, error) {
	order := make([]int, len(ds.Trips))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := ds.Trips[order[i]], ds.Trips[order[j]]
		if a.Tip != b.Tip {
			return a.Tip > b.Tip
		}
		return a.TripKey < b.TripKey
	})
	if len(order) > 1000 {
		order = order[:1000]
	}

	type zoneCount struct {
		zoneKey int64
		name    string
		count   int64
	}
	var rows []zoneCount
	for zi, z := range ds.Zones {
		var count int64
		for _, ti := range order {
			if Within(ds.pickups[ti], ds.zoneBounds[zi]) {
				count++
			}
		}
		if count > 0 {
			rows = append(rows, zoneCount{z.ZoneKey, z.Name, count})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].zoneKey < rows[j].zoneKey
	})

	f := &Frame{Columns: []string{"z_zonekey", "z_name", "trip_count"}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []any{r.zoneKey, r.name, r.count})
	}
	return f, nil
}

// q5: monthly convex hull area of dropoff locations per repeat customer.
func q5(ds *Dataset) (*Frame, error) {
	type groupKey struct {
		custKey int64
		month   time.Time
	}
	groups := make(map[groupKey][]geom.Point)

	for i, t := range ds.Trips {
		g := ds.dropoffs[i]
		if !g.IsPoint() {
			return nil, fmt.Errorf("trip %d: dropoff is not a point", t.TripKey)
		}
		key := groupKey{t.CustKey, monthOf(t.PickupTime)}
		groups[key] = append(groups[key], g.MustAsPoint())
	}

	names := ds.customerNames()

	type row struct {
		custKey  int64
		name     string
		month    time.Time
		hullArea float64
		count    int64
	}
	var rows []row
	for key, points := range groups {
		if len(points) <= 5 {
			continue
		}
		rows = append(rows, row{
			custKey:  key.custKey,
			name:     names[key.custKey],
			month:    key.month,
			hullArea: HullArea(points),
			count:    int64(len(points)),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		if rows[i].custKey != rows[j].custKey {
			return rows[i].custKey < rows[j].custKey
		}
		return rows[i].month.Before(rows[j].month)
	})

	f := &Frame{Columns: []string{"c_custkey", "customer_name", "pickup_month", "monthly_travel_hull_area", "dropoff_count"}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []any{r.custKey, r.name, r.month, r.hullArea, r.count})
	}
	return f, nil
}

// q6: zone statistics for trips inside zones intersecting the region box.
func q6(ds *Dataset) (*Frame, error) {
	box, err := ParseWKT(RegionBoxWKT)
	if err != nil {
		return nil, err
	}

	type agg struct {
		zoneKey     int64
		name        string
		pickups     int64
		sumAmount   float64
		sumDuration float64
	}

	var selected []int
	for zi := range ds.Zones {
		if Intersects(box, ds.zoneBounds[zi]) {
			selected = append(selected, zi)
		}
	}

	aggs := make(map[int]*agg)
	for ti, t := range ds.Trips {
		for _, zi := range selected {
			if !Within(ds.pickups[ti], ds.zoneBounds[zi]) {
				continue
			}
			a := aggs[zi]
			if a == nil {
				a = &agg{zoneKey: ds.Zones[zi].ZoneKey, name: ds.Zones[zi].Name}
				aggs[zi] = a
			}
			a.pickups++
			a.sumAmount += t.TotalAmount
			a.sumDuration += durationSeconds(t.PickupTime, t.DropoffTime)
		}
	}

	rows := make([]*agg, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, a)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].pickups != rows[j].pickups {
			return rows[i].pickups > rows[j].pickups
		}
		return rows[i].zoneKey < rows[j].zoneKey
	})

	f := &Frame{Columns: []string{"z_zonekey", "z_name", "total_pickups", "avg_distance", "avg_duration"}}
	for _, a := range rows {
		n := float64(a.pickups)
		f.Rows = append(f.Rows, []any{a.zoneKey, a.name, a.pickups, a.sumAmount / n, a.sumDuration / n})
	}
	return f, nil
}

// q7: detour detection by comparing reported vs. straight-line distance.
func q7(ds *Dataset) (*Frame, error) {
	type row struct {
		tripKey  int64
		reported float64
		line     float64
		ratio    *float64
	}

	rows := make([]row, 0, len(ds.Trips))
	for i, t := range ds.Trips {
		line := Dist(ds.pickups[i], ds.dropoffs[i]) / 0.000009
		r := row{tripKey: t.TripKey, reported: t.Distance, line: line}
		if line != 0 {
			ratio := t.Distance / line
			r.ratio = &ratio
		}
		rows = append(rows, r)
	}

	sort.Slice(rows, func(i, j int) bool {
		if less, equal := descNullsLast(rows[i].ratio, rows[j].ratio); !equal {
			return less
		}
		if rows[i].reported != rows[j].reported {
			return rows[i].reported > rows[j].reported
		}
		return rows[i].tripKey < rows[j].tripKey
	})

	f := &Frame{Columns: []string{"t_tripkey", "reported_distance_m", "line_distance_m", "detour_ratio"}}
	for _, r := range rows {
		var ratio any
		if r.ratio != nil {
			ratio = *r.ratio
		}
		f.Rows = append(f.Rows, []any{r.tripKey, r.reported, r.line, ratio})
	}
	return f, nil
}

// q8: count pickups within ~500m of each building.
func q8(ds *Dataset) (*Frame, error) {
	type row struct {
		buildingKey int64
		name        string
		count       int64
	}

	var rows []row
	for bi, b := range ds.Buildings {
		var count int64
		for ti := range ds.Trips {
			if Dist(ds.pickups[ti], ds.buildingGeoms[bi]) <= 0.0045 {
				count++
			}
		}
		if count > 0 {
			rows = append(rows, row{b.BuildingKey, b.Name, count})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].buildingKey < rows[j].buildingKey
	})

	f := &Frame{Columns: []string{"b_buildingkey", "b_name", "nearby_pickup_count"}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []any{r.buildingKey, r.name, r.count})
	}
	return f, nil
}

// q9: building conflation via intersection-over-union on overlapping pairs.
func q9(ds *Dataset) (*Frame, error) {
	type row struct {
		b1, b2        int64
		area1, area2  float64
		overlap, iou  float64
	}

	var rows []row
	for i := range ds.Buildings {
		for j := i + 1; j < len(ds.Buildings); j++ {
			gi, gj := ds.buildingGeoms[i], ds.buildingGeoms[j]
			if !Intersects(gi, gj) {
				continue
			}
			area1, area2 := Area(gi), Area(gj)
			overlap, err := IntersectionArea(gi, gj)
			if err != nil {
				return nil, fmt.Errorf("buildings %d/%d: %w",
					ds.Buildings[i].BuildingKey, ds.Buildings[j].BuildingKey, err)
			}

			var iou float64
			union := area1 + area2 - overlap
			switch {
			case overlap == 0:
				iou = 0
			case union == 0:
				iou = 1
			default:
				iou = overlap / union
			}

			b1, b2 := ds.Buildings[i].BuildingKey, ds.Buildings[j].BuildingKey
			if b1 > b2 {
				b1, b2 = b2, b1
				area1, area2 = area2, area1
			}
			rows = append(rows, row{b1, b2, area1, area2, overlap, iou})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].iou != rows[j].iou {
			return rows[i].iou > rows[j].iou
		}
		if rows[i].b1 != rows[j].b1 {
			return rows[i].b1 < rows[j].b1
		}
		return rows[i].b2 < rows[j].b2
	})

	f := &Frame{Columns: []string{"building_1", "building_2", "area1", "area2", "overlap_area", "iou"}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []any{r.b1, r.b2, r.area1, r.area2, r.overlap, r.iou})
	}
	return f, nil
}

// q10: per-zone trip statistics, zones without trips included with nulls.
func q10(ds *Dataset) (*Frame, error) {
	type agg struct {
		zoneKey     int64
		name        string
		trips       int64
		sumDuration float64
		sumDistance float64
	}

	rows := make([]*agg, len(ds.Zones))
	for zi, z := range ds.Zones {
		rows[zi] = &agg{zoneKey: z.ZoneKey, name: z.Name}
	}

	for ti, t := range ds.Trips {
		for zi := range ds.Zones {
			if !Within(ds.pickups[ti], ds.zoneBounds[zi]) {
				continue
			}
			rows[zi].trips++
			rows[zi].sumDuration += durationSeconds(t.PickupTime, t.DropoffTime)
			rows[zi].sumDistance += t.Distance
		}
	}

	avgDuration := func(a *agg) *float64 {
		if a.trips == 0 {
			return nil
		}
		v := a.sumDuration / float64(a.trips)
		return &v
	}

	sort.Slice(rows, func(i, j int) bool {
		if less, equal := descNullsLast(avgDuration(rows[i]), avgDuration(rows[j])); !equal {
			return less
		}
		return rows[i].zoneKey < rows[j].zoneKey
	})

	f := &Frame{Columns: []string{"z_zonekey", "pickup_zone", "avg_duration", "avg_distance", "num_trips"}}
	for _, a := range rows {
		var avgDur, avgDist any
		if a.trips > 0 {
			avgDur = a.sumDuration / float64(a.trips)
			avgDist = a.sumDistance / float64(a.trips)
		}
		f.Rows = append(f.Rows, []any{a.zoneKey, a.name, avgDur, avgDist, a.trips})
	}
	return f, nil
}

// q11: count trips crossing between different zones. A trip contributes one
// row per (pickup zone, dropoff zone) combination, matching the SQL join.
func q11(ds *Dataset) (*Frame, error) {
	count := int64(0)
	for ti := range ds.Trips {
		var pickupZones, dropoffZones []int64
		for zi := range ds.Zones {
			if Within(ds.pickups[ti], ds.zoneBounds[zi]) {
				pickupZones = append(pickupZones, ds.Zones[zi].ZoneKey)
			}
			if Within(ds.dropoffs[ti], ds.zoneBounds[zi]) {
				dropoffZones = append(dropoffZones, ds.Zones[zi].ZoneKey)
			}
		}
		for _, p := range pickupZones {
			for _, d := range dropoffZones {
				if p != d {
					count++
				}
			}
		}
	}

	return &Frame{
		Columns: []string{"cross_zone_trip_count"},
		Rows:    [][]any{{count}},
	}, nil
}

// q12: the 5 nearest buildings to each trip pickup location.
func q12(ds *Dataset) (*Frame, error) {
	type row struct {
		tripKey     int64
		pickupLoc   []byte
		buildingKey int64
		name        string
		dist        float64
	}

	k := 5
	if len(ds.Buildings) < k {
		k = len(ds.Buildings)
	}

	var rows []row
	nearest := make([]row, len(ds.Buildings))
	for ti, t := range ds.Trips {
		for bi, b := range ds.Buildings {
			nearest[bi] = row{
				tripKey:     t.TripKey,
				pickupLoc:   t.PickupLoc,
				buildingKey: b.BuildingKey,
				name:        b.Name,
				dist:        Dist(ds.pickups[ti], ds.buildingGeoms[bi]),
			}
		}
		sort.Slice(nearest, func(i, j int) bool {
			if nearest[i].dist != nearest[j].dist {
				return nearest[i].dist < nearest[j].dist
			}
			return nearest[i].buildingKey < nearest[j].buildingKey
		})
		rows = append(rows, nearest[:k]...)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].dist != rows[j].dist {
			return rows[i].dist < rows[j].dist
		}
		return rows[i].buildingKey < rows[j].buildingKey
	})

	f := &Frame{Columns: []string{"t_tripkey", "t_pickuploc", "b_buildingkey", "building_name", "distance_to_building"}}
	for _, r := range rows {
		f.Rows = append(f.Rows, []any{r.tripKey, r.pickupLoc, r.buildingKey, r.name, r.dist})
	}
	return f, nil
}
