// Package export renders datasets as downloadable artifacts and dashboard
// lookups. Every function here is a pure function of its dataset, so
// regenerating an artifact from the same snapshot yields identical bytes.
package export

import (
	"bytes"
	"commute-route-service/internal/domain"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jszwec/csvutil"
)

const (
	EmployeesCSVName     = "employee_export.csv"
	CommutesCSVName      = "route_export.csv"
	RouteGeometryCSVName = "route_geoms.csv"
	GeoJSONName          = "route_geoms.geojson"
)

// Cells are strings so that a missing value renders as an empty field.
type employeeCSVRow struct {
	EmployeeNumber string `csv:"employee_number"`
	Postcode       string `csv:"postcode"`
	Latitude       string `csv:"latitude"`
	Longitude      string `csv:"longitude"`
}

type commuteCSVRow struct {
	EmployeeNumber string `csv:"employee_number"`
	StartPostcode  string `csv:"start_postcode"`
	StartLatitude  string `csv:"start_latitude"`
	StartLongitude string `csv:"start_longitude"`
	EndPostcode    string `csv:"end_postcode"`
	EndLatitude    string `csv:"end_latitude"`
	EndLongitude   string `csv:"end_longitude"`
	DistanceMiles  string `csv:"distance_miles"`
	DurationHours  string `csv:"duration_hours"`
}

type routeGeometryCSVRow struct {
	EmployeeNumber string `csv:"employee_number"`
	StartPostcode  string `csv:"start_postcode"`
	EndPostcode    string `csv:"end_postcode"`
	DistanceMiles  string `csv:"distance_miles"`
	DurationHours  string `csv:"duration_hours"`
	RouteGeometry  string `csv:"route_geometry"`
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

func latLng(p *domain.GeoPoint) (string, string) {
	if p == nil {
		return "", ""
	}
	return formatFloat(p.Lat), formatFloat(p.Lng)
}

// EmployeesCSV writes one row per employee record in dataset order.
func EmployeesCSV(ds *domain.EmployeeDataset) ([]byte, error) {
	rows := make([]employeeCSVRow, 0, len(ds.Records))
	for _, r := range ds.Records {
		lat, lng := latLng(r.Coordinate)
		rows = append(rows, employeeCSVRow{
			EmployeeNumber: strconv.Itoa(r.EmployeeNumber),
			Postcode:       r.Postcode,
			Latitude:       lat,
			Longitude:      lng,
		})
	}
	return marshalCSV(rows, employeeCSVRow{})
}

// CommutesCSV writes the flat commute export: endpoints and summary, no geometry.
func CommutesCSV(ds *domain.CommuteDataset) ([]byte, error) {
	rows := make([]commuteCSVRow, 0, len(ds.Records))
	for _, r := range ds.Records {
		slat, slng := latLng(r.Start)
		elat, elng := latLng(r.End)
		rows = append(rows, commuteCSVRow{
			EmployeeNumber: strconv.Itoa(r.EmployeeNumber),
			StartPostcode:  r.StartPostcode,
			StartLatitude:  slat,
			StartLongitude: slng,
			EndPostcode:    r.EndPostcode,
			EndLatitude:    elat,
			EndLongitude:   elng,
			DistanceMiles:  optFloat(r.DistanceMiles),
			DurationHours:  optFloat(r.DurationHours),
		})
	}
	return marshalCSV(rows, commuteCSVRow{})
}

// RouteGeometryCSV writes each commute with its path JSON-encoded as [[lat,lng],...].
func RouteGeometryCSV(ds *domain.CommuteDataset) ([]byte, error) {
	rows := make([]routeGeometryCSVRow, 0, len(ds.Records))
	for _, r := range ds.Records {
		var geom string
		if len(r.RoutePath) > 0 {
			enc, err := domain.EncodePath(r.RoutePath)
			if err != nil {
				return nil, fmt.Errorf("route geometry csv: employee %d: %w", r.EmployeeNumber, err)
			}
			geom = enc
		}
		rows = append(rows, routeGeometryCSVRow{
			EmployeeNumber: strconv.Itoa(r.EmployeeNumber),
			StartPostcode:  r.StartPostcode,
			EndPostcode:    r.EndPostcode,
			DistanceMiles:  optFloat(r.DistanceMiles),
			DurationHours:  optFloat(r.DurationHours),
			RouteGeometry:  geom,
		})
	}
	return marshalCSV(rows, routeGeometryCSVRow{})
}

// marshalCSV always writes the header, even for an empty dataset.
func marshalCSV[T any](rows []T, zero T) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)

	if err := enc.EncodeHeader(zero); err != nil {
		return nil, fmt.Errorf("csv header: %w", err)
	}
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("marshal csv: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("marshal csv: %w", err)
	}
	return buf.Bytes(), nil
}
