package lazygeo

import (
	"container/heap"
	"fmt"
	"sort"
	"time"

	"github.com/peterstace/simplefeatures/geom"

	"github.com/spatialbench/spatialbench-go/internal/geoframe"
)

var queries = map[string]func(*Env) (*geoframe.Frame, error){
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
func Run(name string, env *Env) (*geoframe.Frame, error) {
	fn, ok := queries[name]
	if !ok {
		return nil, fmt.Errorf("query %s not found", name)
	}
	return fn(env)
}

func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func durationSeconds(from, to time.Time) float64 {
	return to.Sub(from).Seconds()
}

// q1: trips within 50km of Sedona city center, streamed with a
// key/location/time projection.
func q1(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		TripKey    int64     `parquet:"t_tripkey"`
		PickupLoc  []byte    `parquet:"t_pickuploc"`
		PickupTime time.Time `parquet:"t_pickuptime"`
	}
	type hit struct {
		tripKey    int64
		lon, lat   float64
		pickupTime time.Time
		dist       float64
	}

	center, err := geoframe.ParseWKT(geoframe.SedonaCenterWKT)
	if err != nil {
		return nil, err
	}

	var hits []hit
	err = scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			g, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return fmt.Errorf("trip %d: %w", t.TripKey, err)
			}
			d := geoframe.Dist(g, center)
			if d > 0.45 {
				continue
			}
			lon, lat, err := geoframe.PointXY(g)
			if err != nil {
				return fmt.Errorf("trip %d: %w", t.TripKey, err)
			}
			hits = append(hits, hit{t.TripKey, lon, lat, t.PickupTime, d})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].tripKey < hits[j].tripKey
	})

	f := &geoframe.Frame{Columns: []string{"t_tripkey", "pickup_lon", "pickup_lat", "t_pickuptime", "distance_to_center"}}
	for _, h := range hits {
		f.Rows = append(f.Rows, []any{h.tripKey, h.lon, h.lat, h.pickupTime, h.dist})
	}
	return f, nil
}

// q2: streamed count of pickups inside the Coconino County zone.
func q2(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		PickupLoc []byte `parquet:"t_pickuploc"`
	}

	var county geom.Geometry
	found := false
	for i, z := range env.zones {
		if z.Name == "Coconino County" {
			county = env.zoneGeoms[i]
			found = true
			break
		}
	}

	count := int64(0)
	if found {
		err := scan(env.tripPath, func(rows []tripRow) error {
			for _, t := range rows {
				g, err := geoframe.DecodeWKB(t.PickupLoc)
				if err != nil {
					return err
				}
				if geoframe.Intersects(g, county) {
					count++
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return &geoframe.Frame{
		Columns: []string{"trip_count_in_coconino_county"},
		Rows:    [][]any{{count}},
	}, nil
}

// q3: monthly aggregates folded during the scan.
func q3(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		PickupLoc   []byte    `parquet:"t_pickuploc"`
		PickupTime  time.Time `parquet:"t_pickuptime"`
		DropoffTime time.Time `parquet:"t_dropofftime"`
		Distance    float64   `parquet:"t_distance"`
		Fare        float64   `parquet:"t_fare"`
	}
	type agg struct {
		trips       int64
		sumDistance float64
		sumDuration float64
		sumFare     float64
	}

	box, err := geoframe.ParseWKT(geoframe.SedonaBoxWKT)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[time.Time]*agg)
	err = scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			g, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return err
			}
			if geoframe.Dist(g, box) > 0.045 {
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
		return nil
	})
	if err != nil {
		return nil, err
	}

	months := make([]time.Time, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	f := &geoframe.Frame{Columns: []string{"pickup_month", "total_trips", "avg_distance", "avg_duration", "avg_fare"}}
	for _, m := range months {
		a := byMonth[m]
		n := float64(a.trips)
		f.Rows = append(f.Rows, []any{m, a.trips, a.sumDistance / n, a.sumDuration / n, a.sumFare / n})
	}
	return f, nil
}

// topTipHeap keeps the 1000 highest-tip trips seen so far. The root is the
// current worst entry so it can be evicted in O(log n).
type topTipEntry struct {
	tripKey   int64
	pickupLoc []byte
	tip       float64
}

type topTipHeap []topTipEntry

func (h topTipHeap) Len() int { return len(h) }
func (h topTipHeap) Less(i, j int) bool {
	if h[i].tip != h[j].tip {
		return h[i].tip < h[j].tip
	}
	return h[i].tripKey > h[j].tripKey
}
func (h topTipHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *topTipHeap) Push(x any)        { *h = append(*h, x.(topTipEntry)) }
func (h *topTipHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// q4: zone distribution of the 1000 highest-tip trips, selected with a
// bounded heap while streaming.
func q4(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		TripKey   int64   `parquet:"t_tripkey"`
		PickupLoc []byte  `parquet:"t_pickuploc"`
		Tip       float64 `parquet:"t_tip"`
	}

	top := &topTipHeap{}
	heap.Init(top)
	err := scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			entry := topTipEntry{t.TripKey, t.PickupLoc, t.Tip}
			if top.Len() < 1000 {
				heap.Push(top, entry)
				continue
			}
			worst := (*top)[0]
			if entry.tip > worst.tip || (entry.tip == worst.tip && entry.tripKey < worst.tripKey) {
				(*top)[0] = entry
				heap.Fix(top, 0)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	type zoneCount struct {
		zoneKey int64
		name    string
		count   int64
	}
	var out []zoneCount
	for zi, z := range env.zones {
		var count int64
		for _, e := range *top {
			g, err := geoframe.DecodeWKB(e.pickupLoc)
			if err != nil {
				return nil, err
			}
			if geoframe.Within(g, env.zoneGeoms[zi]) {
				count++
			}
		}
		if count > 0 {
			out = append(out, zoneCount{z.ZoneKey, z.Name, count})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].zoneKey < out[j].zoneKey
	})

	f := &geoframe.Frame{Columns: []string{"z_zonekey", "z_name", "trip_count"}}
	for _, r := range out {
		f.Rows = append(f.Rows, []any{r.zoneKey, r.name, r.count})
	}
	return f, nil
}

// q5: monthly dropoff hulls per repeat customer. Points are accumulated per
// (customer, month) group while streaming, then hulled.
func q5(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		CustKey    int64     `parquet:"t_custkey"`
		DropoffLoc []byte    `parquet:"t_dropoffloc"`
		PickupTime time.Time `parquet:"t_pickuptime"`
	}
	type groupKey struct {
		custKey int64
		month   time.Time
	}

	groups := make(map[groupKey][]geom.Point)
	err := scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			g, err := geoframe.DecodeWKB(t.DropoffLoc)
			if err != nil {
				return err
			}
			if !g.IsPoint() {
				return fmt.Errorf("customer %d: dropoff is not a point", t.CustKey)
			}
			key := groupKey{t.CustKey, monthOf(t.PickupTime)}
			groups[key] = append(groups[key], g.MustAsPoint())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	names := env.customerNames()

	type row struct {
		custKey  int64
		name     string
		month    time.Time
		hullArea float64
		count    int64
	}
	var out []row
	for key, points := range groups {
		if len(points) <= 5 {
			continue
		}
		out = append(out, row{
			custKey:  key.custKey,
			name:     names[key.custKey],
			month:    key.month,
			hullArea: geoframe.HullArea(points),
			count:    int64(len(points)),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		if out[i].custKey != out[j].custKey {
			return out[i].custKey < out[j].custKey
		}
		return out[i].month.Before(out[j].month)
	})

	f := &geoframe.Frame{Columns: []string{"c_custkey", "customer_name", "pickup_month", "monthly_travel_hull_area", "dropoff_count"}}
	for _, r := range out {
		f.Rows = append(f.Rows, []any{r.custKey, r.name, r.month, r.hullArea, r.count})
	}
	return f, nil
}

// q6: per-zone statistics for zones intersecting the region box, folded
// during the trip scan.
func q6(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		PickupLoc   []byte    `parquet:"t_pickuploc"`
		PickupTime  time.Time `parquet:"t_pickuptime"`
		DropoffTime time.Time `parquet:"t_dropofftime"`
		TotalAmount float64   `parquet:"t_totalamount"`
	}
	type agg struct {
		zoneKey     int64
		name        string
		pickups     int64
		sumAmount   float64
		sumDuration float64
	}

	box, err := geoframe.ParseWKT(geoframe.RegionBoxWKT)
	if err != nil {
		return nil, err
	}

	var selected []int
	for zi := range env.zones {
		if geoframe.Intersects(box, env.zoneGeoms[zi]) {
			selected = append(selected, zi)
		}
	}

	aggs := make(map[int]*agg)
	err = scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			g, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return err
			}
			for _, zi := range selected {
				if !geoframe.Within(g, env.zoneGeoms[zi]) {
					continue
				}
				a := aggs[zi]
				if a == nil {
					a = &agg{zoneKey: env.zones[zi].ZoneKey, name: env.zones[zi].Name}
					aggs[zi] = a
				}
				a.pickups++
				a.sumAmount += t.TotalAmount
				a.sumDuration += durationSeconds(t.PickupTime, t.DropoffTime)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*agg, 0, len(aggs))
	for _, a := range aggs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].pickups != out[j].pickups {
			return out[i].pickups > out[j].pickups
		}
		return out[i].zoneKey < out[j].zoneKey
	})

	f := &geoframe.Frame{Columns: []string{"z_zonekey", "z_name", "total_pickups", "avg_distance", "avg_duration"}}
	for _, a := range out {
		n := float64(a.pickups)
		f.Rows = append(f.Rows, []any{a.zoneKey, a.name, a.pickups, a.sumAmount / n, a.sumDuration / n})
	}
	return f, nil
}

// q7: detour ratios computed per row during the scan, sorted at the end.
func q7(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		TripKey    int64   `parquet:"t_tripkey"`
		PickupLoc  []byte  `parquet:"t_pickuploc"`
		DropoffLoc []byte  `parquet:"t_dropoffloc"`
		Distance   float64 `parquet:"t_distance"`
	}
	type row struct {
		tripKey  int64
		reported float64
		line     float64
		ratio    *float64
		hasRatio bool
	}

	var out []row
	err := scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			pickup, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return err
			}
			dropoff, err := geoframe.DecodeWKB(t.DropoffLoc)
			if err != nil {
				return err
			}
			line := geoframe.Dist(pickup, dropoff) / 0.000009
			r := row{tripKey: t.TripKey, reported: t.Distance, line: line}
			if line != 0 {
				ratio := t.Distance / line
				r.ratio = &ratio
				r.hasRatio = true
			}
			out = append(out, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.hasRatio && !b.hasRatio:
			return true
		case !a.hasRatio && b.hasRatio:
			return false
		case a.hasRatio && b.hasRatio && *a.ratio != *b.ratio:
			return *a.ratio > *b.ratio
		}
		if a.reported != b.reported {
			return a.reported > b.reported
		}
		return a.tripKey < b.tripKey
	})

	f := &geoframe.Frame{Columns: []string{"t_tripkey", "reported_distance_m", "line_distance_m", "detour_ratio"}}
	for _, r := range out {
		var ratio any
		if r.ratio != nil {
			ratio = *r.ratio
		}
		f.Rows = append(f.Rows, []any{r.tripKey, r.reported, r.line, ratio})
	}
	return f, nil
}

// q8: pickups near each building, counted while streaming.
func q8(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		PickupLoc []byte `parquet:"t_pickuploc"`
	}

	counts := make([]int64, len(env.buildings))
	err := scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			g, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return err
			}
			for bi := range env.buildings {
				if geoframe.Dist(g, env.bldgGeoms[bi]) <= 0.0045 {
					counts[bi]++
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	type row struct {
		buildingKey int64
		name        string
		count       int64
	}
	var out []row
	for bi, b := range env.buildings {
		if counts[bi] > 0 {
			out = append(out, row{b.BuildingKey, b.Name, counts[bi]})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].buildingKey < out[j].buildingKey
	})

	f := &geoframe.Frame{Columns: []string{"b_buildingkey", "b_name", "nearby_pickup_count"}}
	for _, r := range out {
		f.Rows = append(f.Rows, []any{r.buildingKey, r.name, r.count})
	}
	return f, nil
}

// q9 touches only the building table, which is already in memory.
func q9(env *Env) (*geoframe.Frame, error) {
	type row struct {
		b1, b2       int64
		area1, area2 float64
		overlap, iou float64
	}

	var out []row
	for i := range env.buildings {
		for j := i + 1; j < len(env.buildings); j++ {
			gi, gj := env.bldgGeoms[i], env.bldgGeoms[j]
			if !geoframe.Intersects(gi, gj) {
				continue
			}
			area1, area2 := geoframe.Area(gi), geoframe.Area(gj)
			overlap, err := geoframe.IntersectionArea(gi, gj)
			if err != nil {
				return nil, fmt.Errorf("buildings %d/%d: %w",
					env.buildings[i].BuildingKey, env.buildings[j].BuildingKey, err)
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

			b1, b2 := env.buildings[i].BuildingKey, env.buildings[j].BuildingKey
			if b1 > b2 {
				b1, b2 = b2, b1
				area1, area2 = area2, area1
			}
			out = append(out, row{b1, b2, area1, area2, overlap, iou})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].iou != out[j].iou {
			return out[i].iou > out[j].iou
		}
		if out[i].b1 != out[j].b1 {
			return out[i].b1 < out[j].b1
		}
		return out[i].b2 < out[j].b2
	})

	f := &geoframe.Frame{Columns: []string{"building_1", "building_2", "area1", "area2", "overlap_area", "iou"}}
	for _, r := range out {
		f.Rows = append(f.Rows, []any{r.b1, r.b2, r.area1, r.area2, r.overlap, r.iou})
	}
	return f, nil
}

// q10: per-zone aggregates over all zones, folded during the scan. Zones
// without trips are kept with null averages.
func q10(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		PickupLoc   []byte    `parquet:"t_pickuploc"`
		PickupTime  time.Time `parquet:"t_pickuptime"`
		DropoffTime time.Time `parquet:"t_dropofftime"`
		Distance    float64   `parquet:"t_distance"`
	}
	type agg struct {
		zoneKey     int64
		name        string
		trips       int64
		sumDuration float64
		sumDistance float64
	}

	out := make([]*agg, len(env.zones))
	for zi, z := range env.zones {
		out[zi] = &agg{zoneKey: z.ZoneKey, name: z.Name}
	}

	err := scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			g, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return err
			}
			for zi := range env.zones {
				if !geoframe.Within(g, env.zoneGeoms[zi]) {
					continue
				}
				out[zi].trips++
				out[zi].sumDuration += durationSeconds(t.PickupTime, t.DropoffTime)
				out[zi].sumDistance += t.Distance
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.trips > 0 && b.trips == 0:
			return true
		case a.trips == 0 && b.trips > 0:
			return false
		case a.trips > 0 && b.trips > 0:
			avgA := a.sumDuration / float64(a.trips)
			avgB := b.sumDuration / float64(b.trips)
			if avgA != avgB {
				return avgA > avgB
			}
		}
		return a.zoneKey < b.zoneKey
	})

	f := &geoframe.Frame{Columns: []string{"z_zonekey", "pickup_zone", "avg_duration", "avg_distance", "num_trips"}}
	for _, a := range out {
		var avgDur, avgDist any
		if a.trips > 0 {
			avgDur = a.sumDuration / float64(a.trips)
			avgDist = a.sumDistance / float64(a.trips)
		}
		f.Rows = append(f.Rows, []any{a.zoneKey, a.name, avgDur, avgDist, a.trips})
	}
	return f, nil
}

// q11: streamed count of trips crossing between different zones.
func q11(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		PickupLoc  []byte `parquet:"t_pickuploc"`
		DropoffLoc []byte `parquet:"t_dropoffloc"`
	}

	count := int64(0)
	err := scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			pickup, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return err
			}
			dropoff, err := geoframe.DecodeWKB(t.DropoffLoc)
			if err != nil {
				return err
			}
			var pickupZones, dropoffZones []int64
			for zi := range env.zones {
				if geoframe.Within(pickup, env.zoneGeoms[zi]) {
					pickupZones = append(pickupZones, env.zones[zi].ZoneKey)
				}
				if geoframe.Within(dropoff, env.zoneGeoms[zi]) {
					dropoffZones = append(dropoffZones, env.zones[zi].ZoneKey)
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
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &geoframe.Frame{
		Columns: []string{"cross_zone_trip_count"},
		Rows:    [][]any{{count}},
	}, nil
}

// q12: 5 nearest buildings per trip, computed per batch during the scan.
func q12(env *Env) (*geoframe.Frame, error) {
	type tripRow struct {
		TripKey   int64  `parquet:"t_tripkey"`
		PickupLoc []byte `parquet:"t_pickuploc"`
	}
	type row struct {
		tripKey     int64
		pickupLoc   []byte
		buildingKey int64
		name        string
		dist        float64
	}

	k := 5
	if len(env.buildings) < k {
		k = len(env.buildings)
	}

	var out []row
	nearest := make([]row, len(env.buildings))
	err := scan(env.tripPath, func(rows []tripRow) error {
		for _, t := range rows {
			g, err := geoframe.DecodeWKB(t.PickupLoc)
			if err != nil {
				return err
			}
			for bi, b := range env.buildings {
				nearest[bi] = row{
					tripKey:     t.TripKey,
					pickupLoc:   append([]byte(nil), t.PickupLoc...),
					buildingKey: b.BuildingKey,
					name:        b.Name,
					dist:        geoframe.Dist(g, env.bldgGeoms[bi]),
				}
			}
			sort.Slice(nearest, func(i, j int) bool {
				if nearest[i].dist != nearest[j].dist {
					return nearest[i].dist < nearest[j].dist
				}
				return nearest[i].buildingKey < nearest[j].buildingKey
			})
			out = append(out, nearest[:k]...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].dist != out[j].dist {
			return out[i].dist < out[j].dist
		}
		return out[i].buildingKey < out[j].buildingKey
	})

	f := &geoframe.Frame{Columns: []string{"t_tripkey", "t_pickuploc", "b_buildingkey", "building_name", "distance_to_building"}}
	for _, r := range out {
		f.Rows = append(f.Rows, []any{r.tripKey, r.pickupLoc, r.buildingKey, r.name, r.dist})
	}
	return f, nil
}
