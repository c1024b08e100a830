package api

import (
	"commute-route-service/internal/api/handlers"
	"commute-route-service/internal/services"
	"commute-route-service/internal/session"
	"net/http"
)

const DefaultMaxUploadBytes = 32 << 20

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers only see the builder and the session store, never concrete adapters.
func NewRouter(builder *services.Builder, store *session.Store, maxUploadBytes int64) http.Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}

	mux := http.NewServeMux()

	health := &handlers.HealthHandler{Store: store}
	upload := &handlers.UploadHandler{
		Builder:        builder,
		Store:          store,
		MaxUploadBytes: maxUploadBytes,
	}
	datasets := &handlers.DatasetHandler{Store: store}
	exports := &handlers.ExportHandler{Store: store}

	mux.HandleFunc("/health", health.Health)

	mux.HandleFunc("/upload", upload.Employees)
	mux.HandleFunc("/upload_route", upload.Routes)

	mux.HandleFunc("/api/employees", datasets.Employees)
	mux.HandleFunc("/api/routes", datasets.Routes)
	mux.HandleFunc("/api/employee/{n}", datasets.Employee)
	mux.HandleFunc("/api/route/{n}", datasets.Route)

	mux.HandleFunc("/export_csv", exports.EmployeesCSV)
	mux.HandleFunc("/export_route_csv", exports.CommutesCSV)
	mux.HandleFunc("/download_route_geoms_geojson", exports.GeoJSON)
	mux.HandleFunc("/download_route_geoms_csv", exports.RouteGeometryCSV)

	return loggingMiddleware(mux)
}
