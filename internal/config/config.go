// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultNominatimURL  = "https://nominatim.openstreetmap.org"
	DefaultOSRMLocalURL  = "http://127.0.0.1:5000"
	DefaultOSRMPublicURL = "https://router.project-osrm.org"
)

const (
	CacheMemory   = "memory"
	CacheNone     = "none"
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
)

type Config struct {
	Port string

	NominatimURL     string
	GeocodeCountry   string
	GeocodeUserAgent string

	OSRMLocalURL  string
	OSRMPublicURL string

	HTTPTimeout        time.Duration
	ResolveConcurrency int

	RouteCacheDriver string
	RouteCacheDSN    string
	RouteCacheTTL    time.Duration

	MaxUploadBytes int64
}

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads Config from the environment. Callers load .env first.
func Load() (Config, error) {
	cfg := Config{
		Port:             Get("PORT", "8080"),
		NominatimURL:     Get("NOMINATIM_URL", DefaultNominatimURL),
		GeocodeCountry:   Get("GEOCODE_COUNTRY", "UK"),
		GeocodeUserAgent: Get("GEOCODE_USER_AGENT", "commute-route-service/1.0"),
		OSRMLocalURL:     Get("OSRM_LOCAL_URL", DefaultOSRMLocalURL),
		OSRMPublicURL:    Get("OSRM_PUBLIC_URL", DefaultOSRMPublicURL),
		RouteCacheDriver: strings.ToLower(Get("ROUTE_CACHE_DRIVER", CacheMemory)),
		RouteCacheDSN:    Get("ROUTE_CACHE_DSN", ""),
	}

	var err error
	if cfg.HTTPTimeout, err = duration("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.RouteCacheTTL, err = duration("ROUTE_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}

	n, err := integer("RESOLVE_CONCURRENCY", 6)
	if err != nil {
		return Config{}, err
	}
	if n < 1 {
		return Config{}, fmt.Errorf("config: RESOLVE_CONCURRENCY must be at least 1, got %d", n)
	}
	cfg.ResolveConcurrency = n

	maxUpload, err := integer("MAX_UPLOAD_BYTES", 32<<20)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	switch cfg.RouteCacheDriver {
	case CacheMemory, CacheNone:
	case CacheSQLite, CachePostgres, CacheRedis:
		if cfg.RouteCacheDSN == "" {
			return Config{}, fmt.Errorf("config: ROUTE_CACHE_DSN is required for ROUTE_CACHE_DRIVER=%s", cfg.RouteCacheDriver)
		}
	default:
		return Config{}, fmt.Errorf("config: unknown ROUTE_CACHE_DRIVER %q", cfg.RouteCacheDriver)
	}

	return cfg, nil
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func integer(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
