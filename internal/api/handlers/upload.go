package handlers

import (
	"commute-route-service/internal/platform/obs"
	"commute-route-service/internal/services"
	"commute-route-service/internal/session"
	"commute-route-service/internal/tabular"
	"errors"
	"fmt"
	"net/http"
)

const (
	EmployeeFileField = "file"
	RouteFileField    = "route_file"
)

// UploadHandler builds datasets from uploaded tables and stores them in the session.
type UploadHandler struct {
	Builder        *services.Builder
	Store          *session.Store
	MaxUploadBytes int64
}

func (h *UploadHandler) Employees(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	table, ok := h.readTable(w, r, EmployeeFileField)
	if !ok {
		return
	}

	ds, err := h.Builder.BuildEmployees(r.Context(), table)
	if err != nil {
		h.fail(w, r, "build employees", err)
		return
	}
	h.Store.SetEmployees(ds)

	writeJSON(w, r, http.StatusOK, employeesResponse(ds))
}

func (h *UploadHandler) Routes(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	table, ok := h.readTable(w, r, RouteFileField)
	if !ok {
		return
	}

	ds, err := h.Builder.BuildCommutes(r.Context(), table)
	if err != nil {
		h.fail(w, r, "build commutes", err)
		return
	}
	h.Store.SetCommutes(ds)

	writeJSON(w, r, http.StatusOK, routesResponse(ds))
}

// readTable extracts the named multipart file and parses it. On failure it has
// already written the response.
func (h *UploadHandler) readTable(w http.ResponseWriter, r *http.Request, field string) (tabular.Table, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "upload too large")
			return tabular.Table{}, false
		}
		writeError(w, r, http.StatusBadRequest, "expected multipart form upload")
		return tabular.Table{}, false
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("no file uploaded in field %q", field))
		return tabular.Table{}, false
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, r, http.StatusBadRequest, "no file selected")
		return tabular.Table{}, false
	}

	table, err := tabular.Read(header.Filename, file)
	if err != nil {
		h.fail(w, r, "read upload", err)
		return tabular.Table{}, false
	}

	obs.Logf(r.Context(), "op=upload field=%s file=%q rows=%d", field, header.Filename, len(table.Rows))
	return table, true
}

func (h *UploadHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := uploadErrorStatus(err)
	if status == http.StatusInternalServerError {
		obs.Logf(r.Context(), "op=%s failed: %v", op, err)
	} else {
		obs.Logf(r.Context(), "op=%s rejected: %v", op, err)
	}
	writeError(w, r, status, msg)
}
