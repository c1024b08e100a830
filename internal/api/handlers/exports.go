package handlers

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/export"
	"commute-route-service/internal/platform/obs"
	"commute-route-service/internal/session"
	"net/http"

	"github.com/google/uuid"
)

const (
	contentTypeCSV     = "text/csv; charset=utf-8"
	contentTypeGeoJSON = "application/geo+json"
)

// ExportHandler renders downloads from the current datasets on each request.
type ExportHandler struct {
	Store *session.Store
}

func (h *ExportHandler) EmployeesCSV(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ds := h.Store.Employees()
	if ds == nil {
		writeError(w, r, http.StatusNotFound, errNoEmployeeData)
		return
	}
	b, err := export.EmployeesCSV(ds)
	h.send(w, r, export.EmployeesCSVName, contentTypeCSV, ds.ID, b, err)
}

func (h *ExportHandler) CommutesCSV(w http.ResponseWriter, r *http.Request) {
	h.commuteArtifact(w, r, export.CommutesCSVName, contentTypeCSV, export.CommutesCSV)
}

func (h *ExportHandler) RouteGeometryCSV(w http.ResponseWriter, r *http.Request) {
	h.commuteArtifact(w, r, export.RouteGeometryCSVName, contentTypeCSV, export.RouteGeometryCSV)
}

func (h *ExportHandler) GeoJSON(w http.ResponseWriter, r *http.Request) {
	h.commuteArtifact(w, r, export.GeoJSONName, contentTypeGeoJSON, export.CommutesGeoJSON)
}

func (h *ExportHandler) commuteArtifact(
	w http.ResponseWriter,
	r *http.Request,
	filename string,
	contentType string,
	render func(*domain.CommuteDataset) ([]byte, error),
) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ds := h.Store.Commutes()
	if ds == nil {
		writeError(w, r, http.StatusNotFound, errNoRouteData)
		return
	}
	b, err := render(ds)
	h.send(w, r, filename, contentType, ds.ID, b, err)
}

func (h *ExportHandler) send(w http.ResponseWriter, r *http.Request, filename, contentType string, id uuid.UUID, body []byte, err error) {
	if err != nil {
		obs.Logf(r.Context(), "op=export file=%s failed: %v", filename, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	writeAttachment(w, r, filename, contentType, id, body)
}
