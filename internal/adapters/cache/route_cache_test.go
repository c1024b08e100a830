package cache

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/db"
	"commute-route-service/internal/ports"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	_ ports.RouteCache = (*MemoryRouteCache)(nil)
	_ ports.RouteCache = (*SQLRouteCache)(nil)
	_ ports.RouteCache = (*RedisRouteCache)(nil)
)

func sampleRoute() domain.Route {
	return domain.Route{
		Path: []domain.GeoPoint{
			{Lat: 51.5201, Lng: -0.0977},
			{Lat: 51.5102, Lng: -0.1203},
			{Lat: 51.5014, Lng: -0.1419},
		},
		DistanceMiles: 3.42,
		DurationHours: 0.27,
	}
}

// exerciseRouteCache runs the behavior every backend must share.
func exerciseRouteCache(t *testing.T, c ports.RouteCache) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := c.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("get missing: ok=%v err=%v, want miss", ok, err)
	}

	want := sampleRoute()
	if err := c.Put(ctx, "a|b|full", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := c.Get(ctx, "a|b|full")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v, want hit", ok, err)
	}
	if got.DistanceMiles != want.DistanceMiles || got.DurationHours != want.DurationHours {
		t.Fatalf("summary = %+v, want %+v", got, want)
	}
	if len(got.Path) != len(want.Path) {
		t.Fatalf("path length = %d, want %d", len(got.Path), len(want.Path))
	}
	for i := range want.Path {
		if got.Path[i] != want.Path[i] {
			t.Fatalf("path[%d] = %v, want %v", i, got.Path[i], want.Path[i])
		}
	}

	summary := domain.Route{DistanceMiles: 1.5, DurationHours: 0.1}
	if err := c.Put(ctx, "a|b|full", summary); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err = c.Get(ctx, "a|b|full")
	if err != nil || !ok {
		t.Fatalf("get after overwrite: ok=%v err=%v", ok, err)
	}
	if got.Path != nil || got.DistanceMiles != 1.5 {
		t.Fatalf("after overwrite = %+v, want summary only", got)
	}
}

func TestMemoryRouteCache(t *testing.T) {
	c := NewMemoryRouteCache()
	exerciseRouteCache(t, c)
	if c.Len() != 1 {
		t.Fatalf("len = %d, want 1", c.Len())
	}
}

func TestSQLiteRouteCache(t *testing.T) {
	conn, err := db.Open(db.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	// Idempotent.
	if err := InitSchema(context.Background(), conn); err != nil {
		t.Fatalf("init schema twice: %v", err)
	}

	c, err := NewSQLRouteCache(conn, db.DriverSQLite)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	exerciseRouteCache(t, c)

	n, err := Purge(context.Background(), conn)
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("purged %d rows, want 1", n)
	}
}

func TestNewSQLRouteCacheRejectsUnknownDriver(t *testing.T) {
	if _, err := NewSQLRouteCache(nil, "mysql"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestRedisRouteCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	c := NewRedisRouteCache(client, time.Hour)
	defer c.Close()

	exerciseRouteCache(t, c)

	if !mr.Exists(redisKeyPrefix + "a|b|full") {
		t.Fatalf("expected prefixed key in redis")
	}
	mr.FastForward(2 * time.Hour)
	if _, ok, _ := c.Get(context.Background(), "a|b|full"); ok {
		t.Fatalf("expected entry to expire after ttl")
	}
}
