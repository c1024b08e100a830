package services

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/obs"
	"commute-route-service/internal/ports"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// NormalizePostcode returns the cache key for a postcode: trimmed and uppercased.
func NormalizePostcode(postcode string) string {
	return strings.ToUpper(strings.TrimSpace(postcode))
}

// GeocodeCache maps normalized postcodes to coordinates for the lifetime of
// the process. A nil entry records a definitive "not found".
// It is safe for concurrent use and is never persisted or evicted.
type GeocodeCache struct {
	mu      sync.RWMutex
	entries map[string]*domain.GeoPoint
}

// NewGeocodeCache returns an empty cache.
func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{entries: make(map[string]*domain.GeoPoint)}
}

// Get returns the cached point (nil for a cached miss) and whether key was present.
func (c *GeocodeCache) Get(key string) (*domain.GeoPoint, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.entries[key]
	if !ok || p == nil {
		return nil, ok
	}
	cp := *p
	return &cp, true
}

// Put records p for key; a nil p records "not found".
func (c *GeocodeCache) Put(key string, p *domain.GeoPoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p == nil {
		c.entries[key] = nil
		return
	}
	cp := *p
	c.entries[key] = &cp
}

// Contains reports whether key has an entry, including a cached "not found".
func (c *GeocodeCache) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[key]
	return ok
}

// Len returns the number of cached postcodes.
func (c *GeocodeCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CoordinateResolver resolves postcodes through a Geocoder, issuing at most one
// external lookup per distinct normalized postcode. Timeouts and transient
// failures are not cached so a later call retries.
type CoordinateResolver struct {
	geocoder ports.Geocoder
	cache    *GeocodeCache
	inflight singleflight.Group
}

func NewCoordinateResolver(geocoder ports.Geocoder, cache *GeocodeCache) *CoordinateResolver {
	if cache == nil {
		cache = NewGeocodeCache()
	}
	return &CoordinateResolver{geocoder: geocoder, cache: cache}
}

// Lookup returns the coordinates for postcode or a classified error
// (domain.ErrGeocodeNotFound, domain.ErrGeocodeTimeout, domain.ErrGeocodeUnavailable).
func (r *CoordinateResolver) Lookup(ctx context.Context, postcode string) (domain.GeoPoint, error) {
	key := NormalizePostcode(postcode)
	if key == "" {
		return domain.GeoPoint{}, fmt.Errorf("lookup postcode: empty: %w", domain.ErrGeocodeNotFound)
	}

	if p, ok := r.cache.Get(key); ok {
		return fromCache(key, p)
	}

	// Concurrent misses for one key share a single external call.
	v, err, _ := r.inflight.Do(key, func() (any, error) {
		if p, ok := r.cache.Get(key); ok {
			return p, nil
		}

		p, err := r.geocoder.Geocode(ctx, key)
		switch {
		case err == nil:
			r.cache.Put(key, &p)
			return &p, nil
		case errors.Is(err, domain.ErrGeocodeNotFound):
			r.cache.Put(key, nil)
			return (*domain.GeoPoint)(nil), nil
		default:
			return nil, err
		}
	})
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("lookup postcode %q: %w", key, err)
	}

	return fromCache(key, v.(*domain.GeoPoint))
}

func fromCache(key string, p *domain.GeoPoint) (domain.GeoPoint, error) {
	if p == nil {
		return domain.GeoPoint{}, fmt.Errorf("lookup postcode %q: %w", key, domain.ErrGeocodeNotFound)
	}
	return *p, nil
}

// Resolve is Lookup with failures degraded to nil and logged.
func (r *CoordinateResolver) Resolve(ctx context.Context, postcode string) *domain.GeoPoint {
	p, err := r.Lookup(ctx, postcode)
	if err != nil {
		if strings.TrimSpace(postcode) != "" {
			obs.Logf(ctx, "op=coordinates.Resolve postcode=%q err=%v", postcode, err)
		}
		return nil
	}
	return &p
}
