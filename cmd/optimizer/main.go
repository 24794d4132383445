package main

import (
	"context"
	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/adapters/ors"
	"fleet-route-service/internal/api"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/db"
	"fleet-route-service/internal/services"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
)

// main runs the route optimization service: POST /optimize-route geocodes the
// warehouse and stops with ORS and orders them with a nearest-neighbor tour.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	orsKey := config.Get("ORS_API_KEY", "")
	if orsKey == "" {
		log.Fatal("ORS_API_KEY is required")
	}
	port := config.Get("OPTIMIZER_PORT", "5000")
	dbPath := config.Get("DB_PATH", "data/app.db")

	conn, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = cache.InitSchema(ctx, conn)
	cancel()
	if err != nil {
		log.Fatal(err)
	}

	client, err := ors.NewClient(orsKey, ors.WithBaseURL(config.Get("ORS_BASE_URL", "")))
	if err != nil {
		log.Fatal(err)
	}
	geocoder := ors.NewGeocoder(client, cache.NewSqliteGeocodeCache(conn), config.Get("ORS_BOUNDARY_COUNTRY", ""))

	router := api.NewOptimizerRouter(services.NewLocalOptimizer(geocoder))

	log.Printf("Optimizer listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
