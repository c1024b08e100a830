package domain

import (
	"time"

	"github.com/google/uuid"
)

// Represents one row of an employee upload after geocoding.
// Coordinate is nil when the postcode could not be resolved.
type EmployeeRecord struct {
	EmployeeNumber int
	Postcode       string
	Coordinate     *GeoPoint
}

// EmployeeDataset is the immutable result of one employee upload.
// Records keep input row order; lookups by employee number use the last matching row.
type EmployeeDataset struct {
	ID      uuid.UUID
	BuiltAt time.Time
	Records []EmployeeRecord

	index map[int]int
}

func NewEmployeeDataset(records []EmployeeRecord, builtAt time.Time) *EmployeeDataset {
	index := make(map[int]int, len(records))
	for i, r := range records {
		index[r.EmployeeNumber] = i
	}

	return &EmployeeDataset{
		ID:      uuid.New(),
		BuiltAt: builtAt,
		Records: records,
		index:   index,
	}
}

// EmployeeNumbers returns each employee number once, in first-appearance order.
func (d *EmployeeDataset) EmployeeNumbers() []int {
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

func (d *EmployeeDataset) Lookup(employeeNumber int) (EmployeeRecord, error) {
	i, ok := d.index[employeeNumber]
	if !ok {
		return EmployeeRecord{}, ErrRecordNotFound
	}
	return d.Records[i], nil
}
