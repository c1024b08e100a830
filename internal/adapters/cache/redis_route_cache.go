package cache

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "route:"

// RedisRouteCache stores routes as JSON values with a TTL.
type RedisRouteCache struct {
	client *redis.Client
	ttl    time.Duration
}

type redisRoute struct {
	DistanceMiles float64 `json:"distance_miles"`
	DurationHours float64 `json:"duration_hours"`
	Path          string  `json:"path,omitempty"`
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{client: client, ttl: ttl}
}

// NewRedisRouteCacheFromURL parses a redis:// URL and connects.
func NewRedisRouteCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisRouteCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis route cache: parse url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis route cache: ping: %w", err)
	}

	return NewRedisRouteCache(client, ttl), nil
}

func (r *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.Route, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if strings.TrimSpace(key) == "" {
		return domain.Route{}, false, errors.New("get route cache: key must not be empty")
	}

	b, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Route{}, false, nil
	}
	if err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
	}

	var stored redisRoute
	if err := json.Unmarshal(b, &stored); err != nil {
		return domain.Route{}, false, fmt.Errorf("get route cache key=%q: decode: %w", key, err)
	}

	route := domain.Route{DistanceMiles: stored.DistanceMiles, DurationHours: stored.DurationHours}
	if stored.Path != "" {
		path, err := domain.DecodePath(stored.Path)
		if err != nil {
			return domain.Route{}, false, fmt.Errorf("get route cache key=%q: %w", key, err)
		}
		route.Path = path
	}

	return route, true, nil
}

func (r *RedisRouteCache) Put(ctx context.Context, key string, route domain.Route) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	stored := redisRoute{DistanceMiles: route.DistanceMiles, DurationHours: route.DurationHours}
	if route.HasPath() {
		enc, err := domain.EncodePath(route.Path)
		if err != nil {
			return fmt.Errorf("insert route cache key=%q: %w", key, err)
		}
		stored.Path = enc
	}

	b, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: encode: %w", key, err)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}
	return nil
}

func (r *RedisRouteCache) Close() error { return r.client.Close() }
