package osm

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/ports"
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockGeocoder answers from a fixed table and counts calls per query.
// Queries are matched case-insensitively after trimming; unknown queries are not found.
// Errors registered with Fail take precedence over the table.
type MockGeocoder struct {
	mu     sync.Mutex
	points map[string]domain.GeoPoint
	fail   map[string]error
	calls  map[string]int
}

func NewMockGeocoder(points map[string]domain.GeoPoint) *MockGeocoder {
	m := &MockGeocoder{
		points: make(map[string]domain.GeoPoint, len(points)),
		fail:   make(map[string]error),
		calls:  make(map[string]int),
	}
	for k, v := range points {
		m.points[mockKey(k)] = v
	}
	return m
}

func mockKey(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// Fail makes every lookup of query return err until cleared with a nil err.
func (m *MockGeocoder) Fail(query string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, mockKey(query))
		return
	}
	m.fail[mockKey(query)] = err
}

func (m *MockGeocoder) Geocode(ctx context.Context, query string) (domain.GeoPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := mockKey(query)
	m.calls[k]++
	if err, ok := m.fail[k]; ok {
		return domain.GeoPoint{}, err
	}
	p, ok := m.points[k]
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("mock geocode %q: %w", query, domain.ErrGeocodeNotFound)
	}
	return p, nil
}

func (m *MockGeocoder) Calls(query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[mockKey(query)]
}

func (m *MockGeocoder) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// MockRouteProvider returns a straight two-point leg with fixed metrics, or Err when set.
type MockRouteProvider struct {
	ProviderName    string
	DistanceMeters  float64
	DurationSeconds float64
	Err             error

	mu    sync.Mutex
	calls int
}

var _ ports.RouteProvider = (*MockRouteProvider)(nil)

func (m *MockRouteProvider) Name() string { return m.ProviderName }

func (m *MockRouteProvider) Route(ctx context.Context, start, end domain.GeoPoint, geometry bool) (ports.RouteLeg, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Err != nil {
		return ports.RouteLeg{}, m.Err
	}

	leg := ports.RouteLeg{DistanceMeters: m.DistanceMeters, DurationSeconds: m.DurationSeconds}
	if geometry {
		mid := domain.GeoPoint{Lat: (start.Lat + end.Lat) / 2, Lng: (start.Lng + end.Lng) / 2}
		leg.Geometry = []domain.GeoPoint{start, mid, end}
	}
	return leg, nil
}

func (m *MockRouteProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
