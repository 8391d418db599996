package data

import (
	"fmt"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Trip is one row of the trip table. Pickup and dropoff locations are
// WKB-encoded points.
type Trip struct {
	TripKey     int64     `parquet:"t_tripkey"`
	CustKey     int64     `parquet:"t_custkey"`
	PickupLoc   []byte    `parquet:"t_pickuploc"`
	DropoffLoc  []byte    `parquet:"t_dropoffloc"`
	PickupTime  time.Time `parquet:"t_pickuptime"`
	DropoffTime time.Time `parquet:"t_dropofftime"`
	Distance    float64   `parquet:"t_distance"`
	Fare        float64   `parquet:"t_fare"`
	Tip         float64   `parquet:"t_tip"`
	TotalAmount float64   `parquet:"t_totalamount"`
}

// Zone is one row of the zone table. The boundary is a WKB polygon.
type Zone struct {
	ZoneKey  int64  `parquet:"z_zonekey"`
	Name     string `parquet:"z_name"`
	Boundary []byte `parquet:"z_boundary"`
}

// Building is one row of the building table. The boundary is a WKB polygon.
type Building struct {
	BuildingKey int64  `parquet:"b_buildingkey"`
	Name        string `parquet:"b_name"`
	Boundary    []byte `parquet:"b_boundary"`
}

// Customer is one row of the customer table.
type Customer struct {
	CustKey int64  `parquet:"c_custkey"`
	Name    string `parquet:"c_name"`
}

// ReadAll loads every row of a table, concatenating fragment files.
func ReadAll[T any](path string) ([]T, error) {
	files, err := Files(path)
	if err != nil {
		return nil, err
	}

	var rows []T
	for _, file := range files {
		part, err := parquet.ReadFile[T](file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}
		rows = append(rows, part...)
	}
	return rows, nil
}
