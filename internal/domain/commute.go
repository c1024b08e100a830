package domain

import (
	"time"

	"github.com/google/uuid"
)

// Represents one row of a commute upload after geocoding and routing.
//
// RoutePath, DistanceMiles and DurationHours are nil together when no route
// could be resolved; consumers then draw a straight segment from Start to End.
type CommuteRecord struct {
	EmployeeNumber int
	StartPostcode  string
	EndPostcode    string
	Start          *GeoPoint
	End            *GeoPoint
	RoutePath      []GeoPoint
	DistanceMiles  *float64
	DurationHours  *float64
}

// ApplyRoute copies a resolved route onto the record.
func (c *CommuteRecord) ApplyRoute(r Route) {
	if r.HasPath() {
		c.RoutePath = r.Path
	}
	miles, hours := r.DistanceMiles, r.DurationHours
	c.DistanceMiles = &miles
	c.DurationHours = &hours
}

// Segment returns the points a renderer should draw: the route when present,
// otherwise the straight start-end pair. It returns nil if either end is unknown
// and there is no route.
func (c CommuteRecord) Segment() []GeoPoint {
	if len(c.RoutePath) >= 2 {
		return c.RoutePath
	}
	if c.Start == nil || c.End == nil {
		return nil
	}
	return []GeoPoint{*c.Start, *c.End}
}

// CommuteDataset is the immutable result of one commute upload.
type CommuteDataset struct {
	ID      uuid.UUID
	BuiltAt time.Time
	Records []CommuteRecord

	index map[int]int
}

func NewCommuteDataset(records []CommuteRecord, builtAt time.Time) *CommuteDataset {
	index := make(map[int]int, len(records))
	for i, r := range records {
		index[r.EmployeeNumber] = i
	}

	return &CommuteDataset{
		ID:      uuid.New(),
		BuiltAt: builtAt,
		Records: records,
		index:   index,
	}
}

// EmployeeNumbers returns each employee number once, in first-appearance order.
func (d *CommuteDataset) EmployeeNumbers() []int {
	out := make([]int, 0, len(d.index))
	seen := make(map[int]struct{}, len(d.index))
	for _, r := range d.Records {
		if _, ok := seen[r.EmployeeNumber]; ok {
			continue
		}
		seen[r.EmployeeNumber] = struct{}{}
		out = append(out, r.EmployeeNumber)
	}
	return out
}

func (d *CommuteDataset) Lookup(employeeNumber int) (CommuteRecord, error) {
	i, ok := d.index[employeeNumber]
	if !ok {
		return CommuteRecord{}, ErrRecordNotFound
	}
	return d.Records[i], nil
}
