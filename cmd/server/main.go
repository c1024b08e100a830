package main

import (
	"commute-route-service/internal/adapters/cache"
	"commute-route-service/internal/adapters/osm"
	"commute-route-service/internal/api"
	"commute-route-service/internal/config"
	"commute-route-service/internal/platform/db"
	"commute-route-service/internal/ports"
	"commute-route-service/internal/services"
	"commute-route-service/internal/session"
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (Nominatim, OSRM, route cache) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	routeCache, closeCache, err := openRouteCache(context.Background(), cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	geocoder, err := osm.NewNominatimGeocoder(cfg.NominatimURL, cfg.GeocodeCountry, cfg.GeocodeUserAgent, cfg.HTTPTimeout)
	if err != nil {
		log.Fatal(err)
	}

	// Local OSRM first, public demo server as fallback.
	local, err := osm.NewOSRMRouteProvider("osrm-local", cfg.OSRMLocalURL, cfg.HTTPTimeout)
	if err != nil {
		log.Fatal(err)
	}
	public, err := osm.NewOSRMRouteProvider("osrm-public", cfg.OSRMPublicURL, cfg.HTTPTimeout)
	if err != nil {
		log.Fatal(err)
	}

	builder := services.NewBuilder(
		services.NewCoordinateResolver(geocoder, services.NewGeocodeCache()),
		services.NewRouteResolver(routeCache, local, public),
		cfg.ResolveConcurrency,
	)
	router := api.NewRouter(builder, session.NewStore(), cfg.MaxUploadBytes)

	// Uploads geocode and route every distinct postcode, so writes can take minutes on a cold cache.
	log.Printf("Server listening addr=:%s route_cache=%s", cfg.Port, cfg.RouteCacheDriver)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openRouteCache builds the configured route cache. A nil cache disables caching.
func openRouteCache(ctx context.Context, cfg config.Config) (ports.RouteCache, func(), error) {
	noop := func() {}

	switch cfg.RouteCacheDriver {
	case config.CacheNone:
		return nil, noop, nil
	case config.CacheMemory:
		return cache.NewMemoryRouteCache(), noop, nil
	case config.CacheRedis:
		c, err := cache.NewRedisRouteCacheFromURL(ctx, cfg.RouteCacheDSN, cfg.RouteCacheTTL)
		if err != nil {
			return nil, noop, fmt.Errorf("open route cache: %w", err)
		}
		return c, func() { c.Close() }, nil
	case config.CacheSQLite, config.CachePostgres:
		conn, err := db.Open(cfg.RouteCacheDriver, cfg.RouteCacheDSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open route cache: %w", err)
		}
		if err := cache.InitSchema(ctx, conn); err != nil {
			conn.Close()
			return nil, noop, fmt.Errorf("open route cache: %w", err)
		}
		c, err := cache.NewSQLRouteCache(conn, cfg.RouteCacheDriver)
		if err != nil {
			conn.Close()
			return nil, noop, fmt.Errorf("open route cache: %w", err)
		}
		return c, func() { conn.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("open route cache: unknown driver %q", cfg.RouteCacheDriver)
	}
}
