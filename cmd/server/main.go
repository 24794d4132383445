package main

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/adapters/mapview"
	"fleet-route-service/internal/adapters/optimizer"
	"fleet-route-service/internal/adapters/ors"
	"fleet-route-service/internal/adapters/seed"
	"fleet-route-service/internal/api"
	"fleet-route-service/internal/api/handlers"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/fleet"
	"fleet-route-service/internal/platform/db"
	"fleet-route-service/internal/ports"
	"fleet-route-service/internal/realtime"
	"fleet-route-service/internal/services"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (ORS, geocode cache, optimizer) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	geocodeCache, closeCache, err := openGeocodeCache(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()

	orsClient, err := ors.NewClient(cfg.ORSAPIKey, ors.WithBaseURL(cfg.ORSBaseURL))
	if err != nil {
		log.Fatal(err)
	}
	geocoder := ors.NewGeocoder(orsClient, geocodeCache, cfg.ORSBoundaryCountry)
	canvas := mapview.NewCanvas(ors.NewDirections(orsClient))

	var routeOptimizer ports.RouteOptimizer
	if cfg.OptimizerURL != "" {
		routeOptimizer, err = optimizer.NewClient(cfg.OptimizerURL, cfg.OptimizerTimeout)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Using route optimizer url=%s", cfg.OptimizerURL)
	} else {
		routeOptimizer = services.NewLocalOptimizer(geocoder)
		log.Println("OPTIMIZER_URL not set; optimizing routes in-process")
	}

	registry := fleet.NewRegistry()
	if err := seedFleet(cfg.SeedPath, registry); err != nil {
		log.Fatal(err)
	}

	markers := &handlers.MarkerRefresher{
		Geocoder:    geocoder,
		Renderer:    canvas,
		Concurrency: cfg.MarkerConcurrency,
	}
	if wh, ok := registry.Warehouse(); ok {
		markers.Warehouse(context.Background(), wh)
	}

	router := api.NewRouter(api.Deps{
		Fleet:    registry,
		Pipeline: services.NewRoutePipeline(registry, routeOptimizer, canvas, cfg.RouteTimeout),
		Canvas:   canvas,
		Hub:      realtime.NewHub(),
		Markers:  markers,
	})

	// WriteTimeout covers a cold-cache route request: optimizer plus directions.
	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.RouteTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openGeocodeCache builds the cache selected by GEOCODE_CACHE. The returned
// func releases its connection.
func openGeocodeCache(cfg config.Config) (ports.GeocodeCache, func(), error) {
	noop := func() {}

	switch cfg.GeocodeCache {
	case config.CacheNone:
		return nil, noop, nil

	case config.CacheRedis:
		opts, err := redisOptions(cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, noop, fmt.Errorf("open geocode cache: ping redis: %w", err)
		}
		return cache.NewRedisGeocodeCache(client, cache.DefaultGeocodeTTL), func() { client.Close() }, nil

	case config.CachePostgres:
		conn, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		if err := initSchema(conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSQLGeocodeCache(conn), func() { conn.Close() }, nil

	default:
		conn, err := db.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, noop, err
		}
		if err := initSchema(conn); err != nil {
			conn.Close()
			return nil, noop, err
		}
		return cache.NewSqliteGeocodeCache(conn), func() { conn.Close() }, nil
	}
}

func initSchema(conn *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return cache.InitSchema(ctx, conn)
}

// redisOptions accepts a redis:// URL or a bare host:port.
func redisOptions(raw string) (*redis.Options, error) {
	if strings.Contains(raw, "://") {
		opts, err := redis.ParseURL(raw)
		if err != nil {
			return nil, fmt.Errorf("open geocode cache: parse REDIS_URL: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{Addr: raw}, nil
}

// seedFleet loads the startup fixture. A missing file is not an error.
func seedFleet(path string, registry *fleet.Registry) error {
	data, err := seed.SeedFromJSON(path, registry)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("No fleet seed found path=%s", path)
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Fleet seeded path=%s vehicles=%d warehouse=%t", path, len(data.Vehicles), data.Warehouse != nil)
	return nil
}
