package services

import (
	"commute-route-service/internal/adapters/osm"
	"commute-route-service/internal/domain"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestCoordinateResolverCachesHits(t *testing.T) {
	g := osm.NewMockGeocoder(map[string]domain.GeoPoint{
		"SW1A 1AA": {Lat: 51.501, Lng: -0.1416},
	})
	r := NewCoordinateResolver(g, nil)
	ctx := context.Background()

	for _, q := range []string{"SW1A 1AA", " sw1a 1aa ", "Sw1a 1aA"} {
		p, err := r.Lookup(ctx, q)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", q, err)
		}
		if p.Lat != 51.501 || p.Lng != -0.1416 {
			t.Fatalf("Lookup(%q) = %+v", q, p)
		}
	}

	if got := g.TotalCalls(); got != 1 {
		t.Fatalf("geocoder calls = %d, want 1", got)
	}
}

func TestCoordinateResolverCachesNotFound(t *testing.T) {
	g := osm.NewMockGeocoder(nil)
	cache := NewGeocodeCache()
	r := NewCoordinateResolver(g, cache)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := r.Lookup(ctx, "INVALIDXYZ"); !errors.Is(err, domain.ErrGeocodeNotFound) {
			t.Fatalf("attempt %d: expected ErrGeocodeNotFound, got %v", i, err)
		}
	}
	if got := g.Calls("INVALIDXYZ"); got != 1 {
		t.Fatalf("geocoder calls = %d, want 1", got)
	}
	if p, ok := cache.Get("INVALIDXYZ"); !ok || p != nil {
		t.Fatalf("cache entry = %v, %v; want nil, true", p, ok)
	}
}

func TestCoordinateResolverRetriesAfterTimeout(t *testing.T) {
	g := osm.NewMockGeocoder(map[string]domain.GeoPoint{
		"EC1A 1BB": {Lat: 51.5201, Lng: -0.0977},
	})
	g.Fail("EC1A 1BB", domain.ErrGeocodeTimeout)
	r := NewCoordinateResolver(g, nil)
	ctx := context.Background()

	if _, err := r.Lookup(ctx, "EC1A 1BB"); !errors.Is(err, domain.ErrGeocodeTimeout) {
		t.Fatalf("expected ErrGeocodeTimeout, got %v", err)
	}

	g.Fail("EC1A 1BB", nil)
	p, err := r.Lookup(ctx, "EC1A 1BB")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if p.Lat != 51.5201 {
		t.Fatalf("unexpected point %+v", p)
	}
	if got := g.Calls("EC1A 1BB"); got != 2 {
		t.Fatalf("geocoder calls = %d, want 2", got)
	}
}

func TestCoordinateResolverDoesNotCacheUnavailable(t *testing.T) {
	g := osm.NewMockGeocoder(nil)
	g.Fail("M1 1AE", fmt.Errorf("nominatim: %w", domain.ErrGeocodeUnavailable))
	cache := NewGeocodeCache()
	r := NewCoordinateResolver(g, cache)

	if p := r.Resolve(context.Background(), "M1 1AE"); p != nil {
		t.Fatalf("expected nil, got %+v", p)
	}
	if cache.Contains("M1 1AE") {
		t.Fatalf("unavailable result must not be cached")
	}
}

func TestCoordinateResolverEmptyPostcode(t *testing.T) {
	g := osm.NewMockGeocoder(nil)
	r := NewCoordinateResolver(g, nil)

	if p := r.Resolve(context.Background(), "   "); p != nil {
		t.Fatalf("expected nil, got %+v", p)
	}
	if got := g.TotalCalls(); got != 0 {
		t.Fatalf("geocoder calls = %d, want 0", got)
	}
}

func TestCoordinateResolverConcurrentLookups(t *testing.T) {
	g := osm.NewMockGeocoder(map[string]domain.GeoPoint{
		"LS1 4AP": {Lat: 53.7997, Lng: -1.5492},
	})
	r := NewCoordinateResolver(g, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if p := r.Resolve(context.Background(), "ls1 4ap"); p == nil {
				t.Errorf("expected a point")
			}
		}()
	}
	wg.Wait()

	if got := g.TotalCalls(); got != 1 {
		t.Fatalf("geocoder calls = %d, want 1", got)
	}
}
