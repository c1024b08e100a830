package dto

import (
	"commute-route-service/internal/export"
	"time"
)

type EmployeesResponse struct {
	DatasetID       string                `json:"dataset_id"`
	BuiltAt         time.Time             `json:"built_at"`
	Records         int                   `json:"records"`
	Geocoded        int                   `json:"geocoded"`
	Employees       []int                 `json:"employees"`
	EmployeesCoords map[int]export.LatLng `json:"employees_coords"`
	Overview        *export.MapCommand    `json:"overview"`
}

type RoutesResponse struct {
	DatasetID   string                     `json:"dataset_id"`
	BuiltAt     time.Time                  `json:"built_at"`
	Records     int                        `json:"records"`
	Routed      int                        `json:"routed"`
	Employees   []int                      `json:"employees"`
	RouteCoords map[int]export.RouteCoords `json:"route_coords"`
	Overview    *export.MapCommand         `json:"overview"`
}
