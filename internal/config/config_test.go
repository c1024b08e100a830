package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "NOMINATIM_URL", "OSRM_LOCAL_URL", "OSRM_PUBLIC_URL", "GEOCODE_COUNTRY", "HTTP_TIMEOUT", "RESOLVE_CONCURRENCY",
		"ROUTE_CACHE_DRIVER", "ROUTE_CACHE_DSN", "ROUTE_CACHE_TTL", "MAX_UPLOAD_BYTES",
	} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q", cfg.Port)
	}
	if cfg.GeocodeCountry != "UK" {
		t.Fatalf("GeocodeCountry = %q", cfg.GeocodeCountry)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.ResolveConcurrency != 6 {
		t.Fatalf("ResolveConcurrency = %d", cfg.ResolveConcurrency)
	}
	if cfg.NominatimURL != DefaultNominatimURL || cfg.OSRMLocalURL != DefaultOSRMLocalURL || cfg.OSRMPublicURL != DefaultOSRMPublicURL {
		t.Fatalf("unexpected endpoint defaults %+v", cfg)
	}
	if cfg.RouteCacheDriver != CacheMemory {
		t.Fatalf("RouteCacheDriver = %q", cfg.RouteCacheDriver)
	}
	if cfg.MaxUploadBytes != 32<<20 {
		t.Fatalf("MaxUploadBytes = %d", cfg.MaxUploadBytes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("RESOLVE_CONCURRENCY", "3")
	t.Setenv("ROUTE_CACHE_DRIVER", "SQLite")
	t.Setenv("ROUTE_CACHE_DSN", "file:routes.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.HTTPTimeout != 2*time.Second || cfg.ResolveConcurrency != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.RouteCacheDriver != CacheSQLite || cfg.RouteCacheDSN != "file:routes.db" {
		t.Fatalf("unexpected cache settings %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad duration":    {"HTTP_TIMEOUT": "soon"},
		"bad concurrency": {"RESOLVE_CONCURRENCY": "0"},
		"unknown driver":  {"ROUTE_CACHE_DRIVER": "mongo"},
		"missing dsn":     {"ROUTE_CACHE_DRIVER": "redis", "ROUTE_CACHE_DSN": ""},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
