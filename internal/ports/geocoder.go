package ports

import (
	"commute-route-service/internal/domain"
	"context"
)

// Contract for resolving a free-text location query to coordinates.
type Geocoder interface {
	// Return the best match for query.
	// Implementations return domain.ErrGeocodeNotFound when the service has no match,
	// domain.ErrGeocodeTimeout when the call timed out, and domain.ErrGeocodeUnavailable
	// for any other transport or service failure.
	Geocode(ctx context.Context, query string) (domain.GeoPoint, error)
}
