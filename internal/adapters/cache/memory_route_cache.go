package cache

import (
	"commute-route-service/internal/domain"
	"context"
	"sync"
)

// MemoryRouteCache keeps routes for the lifetime of the process.
type MemoryRouteCache struct {
	mu     sync.RWMutex
	routes map[string]domain.Route
}

func NewMemoryRouteCache() *MemoryRouteCache {
	return &MemoryRouteCache{routes: make(map[string]domain.Route)}
}

func (m *MemoryRouteCache) Get(_ context.Context, key string) (domain.Route, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.routes[key]
	return r, ok, nil
}

func (m *MemoryRouteCache) Put(_ context.Context, key string, route domain.Route) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.routes[key] = route
	return nil
}

func (m *MemoryRouteCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.routes)
}
