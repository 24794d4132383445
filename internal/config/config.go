package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Geocode cache backends selectable with GEOCODE_CACHE.
const (
	CacheSQLite   = "sqlite"
	CachePostgres = "postgres"
	CacheRedis    = "redis"
	CacheNone     = "none"
)

type Config struct {
	Port string

	// Empty means routes are optimized in-process.
	OptimizerURL     string
	OptimizerTimeout time.Duration
	RouteTimeout     time.Duration

	ORSAPIKey          string
	ORSBaseURL         string
	ORSBoundaryCountry string

	GeocodeCache string
	DBPath       string
	DatabaseURL  string
	RedisURL     string

	SeedPath          string
	MarkerConcurrency int
}

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetDuration parses key with time.ParseDuration ("30s", "1m").
func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("config: %s must be positive, got %s", key, v)
	}
	return d, nil
}

func GetInt(key string, fallback int) (int, error) {
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

// Load reads the server configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:               Get("PORT", "8080"),
		OptimizerURL:       Get("OPTIMIZER_URL", ""),
		ORSAPIKey:          Get("ORS_API_KEY", ""),
		ORSBaseURL:         Get("ORS_BASE_URL", ""),
		ORSBoundaryCountry: Get("ORS_BOUNDARY_COUNTRY", ""),
		GeocodeCache:       strings.ToLower(Get("GEOCODE_CACHE", CacheSQLite)),
		DBPath:             Get("DB_PATH", "data/app.db"),
		DatabaseURL:        Get("DATABASE_URL", ""),
		RedisURL:           Get("REDIS_URL", ""),
		SeedPath:           Get("SEED_PATH", "data/seeds/fleet.json"),
	}

	var errs []error
	var err error

	if cfg.OptimizerTimeout, err = GetDuration("OPTIMIZER_TIMEOUT", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.RouteTimeout, err = GetDuration("ROUTE_TIMEOUT", 30*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.MarkerConcurrency, err = GetInt("MARKER_CONCURRENCY", 4); err != nil {
		errs = append(errs, err)
	} else if cfg.MarkerConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("config: MARKER_CONCURRENCY must be positive, got %d", cfg.MarkerConcurrency))
	}

	if cfg.ORSAPIKey == "" {
		errs = append(errs, errors.New("config: ORS_API_KEY is required"))
	}

	switch cfg.GeocodeCache {
	case CacheSQLite, CacheNone:
	case CachePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("config: DATABASE_URL is required when GEOCODE_CACHE=postgres"))
		}
	case CacheRedis:
		if cfg.RedisURL == "" {
			errs = append(errs, errors.New("config: REDIS_URL is required when GEOCODE_CACHE=redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown GEOCODE_CACHE %q", cfg.GeocodeCache))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}
