package dto

import "commute-route-service/internal/export"

type EmployeeResponse struct {
	EmployeeNumber int               `json:"employee_number"`
	Postcode       string            `json:"postcode"`
	Lat            float64           `json:"lat"`
	Lng            float64           `json:"lng"`
	Command        export.MapCommand `json:"command"`
}

type RouteResponse struct {
	EmployeeNumber int               `json:"employee_number"`
	StartPostcode  string            `json:"start_postcode"`
	EndPostcode    string            `json:"end_postcode"`
	DistanceMiles  *float64          `json:"distance_miles"`
	DurationHours  *float64          `json:"duration_hours"`
	Command        export.MapCommand `json:"command"`
}
