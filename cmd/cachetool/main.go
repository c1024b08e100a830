package main

import (
	"commute-route-service/internal/adapters/cache"
	"commute-route-service/internal/config"
	"commute-route-service/internal/platform/db"
	"context"
	"flag"
	"log"
	"strings"

	"github.com/joho/godotenv"
)

// cachetool prepares or clears the SQL route cache named by
// ROUTE_CACHE_DRIVER and ROUTE_CACHE_DSN.
func main() {
	purge := flag.Bool("purge", false, "delete every cached route after ensuring the schema exists")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	driver := strings.ToLower(config.Get("ROUTE_CACHE_DRIVER", ""))
	dsn := config.Get("ROUTE_CACHE_DSN", "")
	if driver != db.DriverSQLite && driver != db.DriverPostgres {
		log.Fatalf("ROUTE_CACHE_DRIVER must be %q or %q, got %q", db.DriverSQLite, db.DriverPostgres, driver)
	}
	if dsn == "" {
		log.Fatal("ROUTE_CACHE_DSN is required")
	}

	conn, err := db.Open(driver, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()

	log.Println("Initializing route cache schema...")
	if err := cache.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	if !*purge {
		return
	}

	log.Println("Purging route cache...")
	n, err := cache.Purge(ctx, conn)
	if err != nil {
		log.Fatalf("purge failed: %v", err)
	}
	log.Printf("Purge complete. removed=%d", n)
}
