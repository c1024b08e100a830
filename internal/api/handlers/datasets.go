package handlers

import (
	"commute-route-service/internal/api/dto"
	"commute-route-service/internal/domain"
	"commute-route-service/internal/export"
	"commute-route-service/internal/session"
	"net/http"
)

const (
	errNoEmployeeData = "no_employee_data"
	errNoRouteData    = "no_route_data"
	errNotFound       = "not_found"
	errNoCoordinates  = "no_coordinates"
)

// DatasetHandler serves the dashboard's views of the current datasets.
type DatasetHandler struct {
	Store *session.Store
}

func (h *DatasetHandler) Employees(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ds := h.Store.Employees()
	if ds == nil {
		writeError(w, r, http.StatusNotFound, errNoEmployeeData)
		return
	}
	writeJSON(w, r, http.StatusOK, employeesResponse(ds))
}

func (h *DatasetHandler) Routes(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ds := h.Store.Commutes()
	if ds == nil {
		writeError(w, r, http.StatusNotFound, errNoRouteData)
		return
	}
	writeJSON(w, r, http.StatusOK, routesResponse(ds))
}

// Employee returns one employee's location and a flyTo command for it.
func (h *DatasetHandler) Employee(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ds := h.Store.Employees()
	if ds == nil {
		writeError(w, r, http.StatusNotFound, errNoEmployeeData)
		return
	}

	n, ok := employeeNumber(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, errNotFound)
		return
	}
	rec, err := ds.Lookup(n)
	if err != nil {
		writeError(w, r, http.StatusNotFound, errNotFound)
		return
	}
	if rec.Coordinate == nil {
		writeError(w, r, http.StatusBadRequest, errNoCoordinates)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.EmployeeResponse{
		EmployeeNumber: rec.EmployeeNumber,
		Postcode:       rec.Postcode,
		Lat:            rec.Coordinate.Lat,
		Lng:            rec.Coordinate.Lng,
		Command:        export.FlyTo(*rec.Coordinate, export.DefaultZoom),
	})
}

// Route returns a showRoute command for one commute: the resolved path, or
// the straight segment between its endpoints.
func (h *DatasetHandler) Route(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ds := h.Store.Commutes()
	if ds == nil {
		writeError(w, r, http.StatusNotFound, errNoRouteData)
		return
	}

	n, ok := employeeNumber(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, errNotFound)
		return
	}
	rec, err := ds.Lookup(n)
	if err != nil {
		writeError(w, r, http.StatusNotFound, errNotFound)
		return
	}

	cmd, ok := export.ShowRoute(rec)
	if !ok {
		writeError(w, r, http.StatusBadRequest, errNoCoordinates)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.RouteResponse{
		EmployeeNumber: rec.EmployeeNumber,
		StartPostcode:  rec.StartPostcode,
		EndPostcode:    rec.EndPostcode,
		DistanceMiles:  rec.DistanceMiles,
		DurationHours:  rec.DurationHours,
		Command:        cmd,
	})
}

func employeesResponse(ds *domain.EmployeeDataset) dto.EmployeesResponse {
	coords := export.EmployeeCoords(ds)
	res := dto.EmployeesResponse{
		DatasetID:       ds.ID.String(),
		BuiltAt:         ds.BuiltAt,
		Records:         len(ds.Records),
		Employees:       ds.EmployeeNumbers(),
		EmployeesCoords: coords,
	}
	for _, rec := range ds.Records {
		if rec.Coordinate != nil {
			res.Geocoded++
		}
	}
	if cmd, ok := export.Overview(export.EmployeePoints(ds)); ok {
		res.Overview = &cmd
	}
	return res
}

func routesResponse(ds *domain.CommuteDataset) dto.RoutesResponse {
	res := dto.RoutesResponse{
		DatasetID:   ds.ID.String(),
		BuiltAt:     ds.BuiltAt,
		Records:     len(ds.Records),
		Employees:   ds.EmployeeNumbers(),
		RouteCoords: export.CommuteCoords(ds),
	}
	for _, rec := range ds.Records {
		if rec.DistanceMiles != nil {
			res.Routed++
		}
	}
	if cmd, ok := export.Overview(export.CommutePoints(ds)); ok {
		res.Overview = &cmd
	}
	return res
}
