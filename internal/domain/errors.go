package domain

import (
	"errors"
	"fmt"
)

var (
	// Upload rejected before parsing.
	ErrUnsupportedFileType = errors.New("unsupported file type: upload an Excel (.xlsx) or CSV (.csv) file")
	// Upload body could not be read as a table.
	ErrMalformedTable = errors.New("malformed table")

	ErrGeocodeNotFound = errors.New("geocode: postcode not found")
	// Retryable; never cached.
	ErrGeocodeTimeout = errors.New("geocode: lookup timed out")
	// Retryable; never cached.
	ErrGeocodeUnavailable = errors.New("geocode: service unavailable")

	// Both routing endpoints failed or an endpoint was missing.
	// Renderers fall back to a straight segment.
	ErrRouteUnavailable = errors.New("route unavailable")

	ErrRecordNotFound = errors.New("record not found")
)

// MissingColumnError is the only batch-fatal validation failure for an upload.
type MissingColumnError struct {
	Name string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Name)
}
