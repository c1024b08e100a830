package handlers

import (
	"commute-route-service/internal/domain"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeAttachment sends body as a file download tagged with the dataset it was built from.
func writeAttachment(w http.ResponseWriter, r *http.Request, filename, contentType string, datasetID uuid.UUID, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("X-Dataset-ID", datasetID.String())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("write failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// employeeNumber parses the {n} path segment.
func employeeNumber(r *http.Request) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(r.PathValue("n")))
	return n, err == nil
}

// uploadErrorStatus maps batch-fatal build errors to a client status and message.
func uploadErrorStatus(err error) (int, string) {
	var missing *domain.MissingColumnError
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, missing.Error()
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "unsupported file type: upload a .csv or .xlsx file"
	case errors.Is(err, domain.ErrMalformedTable):
		return http.StatusBadRequest, "could not read uploaded table"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "upload too large"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
