package main

import (
	"context"
	"fleet-route-service/internal/adapters/cache"
	"fleet-route-service/internal/config"
	"fleet-route-service/internal/platform/db"
	"log"
	"time"

	"github.com/joho/godotenv"
)

// main prepares the Postgres geocode cache used with GEOCODE_CACHE=postgres.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Println("Initializing geocode cache schema...")
	if err := cache.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")
}
