package ports

import (
	"commute-route-service/internal/domain"
	"context"
)

// Raw leg metrics as reported by a routing service.
type RouteLeg struct {
	DistanceMeters  float64
	DurationSeconds float64
	// Ordered path from start to end; empty unless geometry was requested.
	Geometry []domain.GeoPoint
}

// Contract for a single driving-route endpoint.
type RouteProvider interface {
	// Name identifies the endpoint in logs.
	Name() string
	// Return the driving leg between two points.
	Route(ctx context.Context, start, end domain.GeoPoint, geometry bool) (RouteLeg, error)
}
