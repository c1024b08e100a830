package cache

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/db"
	"commute-route-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// SQLRouteCache is a SQL-backed cache of resolved routes (SQLite or Postgres).
// Paths are stored as the JSON text produced by domain.EncodePath.
type SQLRouteCache struct {
	DB     *sql.DB
	driver string
}

func NewSQLRouteCache(conn *sql.DB, driver string) (*SQLRouteCache, error) {
	if _, err := db.SQLDriverName(driver); err != nil {
		return nil, fmt.Errorf("new sql route cache: %w", err)
	}
	return &SQLRouteCache{DB: conn, driver: driver}, nil
}

// placeholder returns the n-th (1-based) bind parameter for the driver.
func (s *SQLRouteCache) placeholder(n int) string {
	if s.driver == db.DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// Fetch a cached route by key.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.Get")(&err)

	if s.DB == nil {
		return domain.Route{}, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	q := fmt.Sprintf(`
	SELECT distance_miles, duration_hours, path_json
    FROM route_cache
    WHERE route_key = %s;
	`, s.placeholder(1))

	var (
		miles, hours float64
		pathJSON     sql.NullString
	)
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&miles, &hours, &pathJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	route := domain.Route{DistanceMiles: miles, DurationHours: hours}
	if pathJSON.Valid && pathJSON.String != "" {
		path, err := domain.DecodePath(pathJSON.String)
		if err != nil {
			return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
		}
		route.Path = path
	}

	return route, true, nil
}

// Store a route under key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	var pathJSON sql.NullString
	if route.HasPath() {
		enc, err := domain.EncodePath(route.Path)
		if err != nil {
			return fmt.Errorf("insert route cache key=%q: %w", key, err)
		}
		pathJSON = sql.NullString{String: enc, Valid: true}
	}

	q := fmt.Sprintf(`
	INSERT INTO route_cache (route_key, distance_miles, duration_hours, path_json)
    VALUES (%s, %s, %s, %s)
	ON CONFLICT (route_key) DO UPDATE
	SET distance_miles = EXCLUDED.distance_miles,
		duration_hours = EXCLUDED.duration_hours,
		path_json = EXCLUDED.path_json;
	`, s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4))

	if _, err := s.DB.ExecContext(ctx, q, key, route.DistanceMiles, route.DurationHours, pathJSON); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
