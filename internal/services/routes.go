package services

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/obs"
	"commute-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
)

// Detail selects what a route resolution returns.
type Detail struct {
	// Geometry requests the full path in addition to distance and duration.
	Geometry bool
}

// RouteKey identifies a resolution in the route cache.
func RouteKey(start, end domain.GeoPoint, d Detail) string {
	mode := "summary"
	if d.Geometry {
		mode = "full"
	}
	return start.Key() + ";" + end.Key() + "|" + mode
}

// RouteResolver tries each provider in order and returns the first success.
//
// There is no retry or backoff beyond the provider list. Failures are never
// cached, so an unavailable pair is attempted again on the next request.
type RouteResolver struct {
	providers []ports.RouteProvider
	cache     ports.RouteCache
}

// NewRouteResolver takes providers in priority order. cache may be nil.
func NewRouteResolver(cache ports.RouteCache, providers ...ports.RouteProvider) *RouteResolver {
	return &RouteResolver{providers: providers, cache: cache}
}

// Resolve returns domain.ErrRouteUnavailable without any external call when
// either endpoint is nil, and when every provider fails.
func (r *RouteResolver) Resolve(
	ctx context.Context,
	start *domain.GeoPoint,
	end *domain.GeoPoint,
	detail Detail,
) (_ domain.Route, err error) {
	if start == nil || end == nil {
		return domain.Route{}, fmt.Errorf("resolve route: missing endpoint: %w", domain.ErrRouteUnavailable)
	}

	defer obs.Time(ctx, "routes.Resolve")(&err)

	key := RouteKey(*start, *end, detail)
	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			obs.Logf(ctx, "op=routes.Resolve route cache read failed: %v", err)
		} else if ok && (!detail.Geometry || cached.HasPath()) {
			return cached, nil
		}
	}

	var attempts []error
	for _, p := range r.providers {
		leg, err := p.Route(ctx, *start, *end, detail.Geometry)
		if err != nil {
			attempts = append(attempts, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if detail.Geometry && len(leg.Geometry) < 2 {
			attempts = append(attempts, fmt.Errorf("%s: route geometry has fewer than 2 points", p.Name()))
			continue
		}

		route := domain.Route{
			DistanceMiles: domain.MetersToMiles(leg.DistanceMeters),
			DurationHours: domain.SecondsToHours(leg.DurationSeconds),
		}
		if detail.Geometry {
			route.Path = leg.Geometry
		}

		if r.cache != nil {
			if err := r.cache.Put(ctx, key, route); err != nil {
				obs.Logf(ctx, "op=routes.Resolve route cache write failed: %v", err)
			}
		}
		return route, nil
	}

	return domain.Route{}, fmt.Errorf(
		"resolve route %s -> %s: %w: %v",
		start.Key(), end.Key(), domain.ErrRouteUnavailable, errors.Join(attempts...),
	)
}
