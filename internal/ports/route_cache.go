package ports

import (
	"commute-route-service/internal/domain"
	"context"
)

// Port: a keyed store of successfully resolved routes.
// Keys are built by the caller and are opaque to the cache.
type RouteCache interface {
	Get(ctx context.Context, key string) (domain.Route, bool, error)
	Put(ctx context.Context, key string, route domain.Route) error
}
