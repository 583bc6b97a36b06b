package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"docqa-service/internal/config"
	"docqa-service/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/migrate <command>")
		fmt.Println("Commands:")
		fmt.Println("  ensure-indexes  - Create the users and queries indexes")
		fmt.Println("  verify          - Check quota counters and history ownership")
		os.Exit(1)
	}

	command := os.Args[1]

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.DBName)

	switch command {
	case "ensure-indexes":
		if err := config.EnsureIndexes(ctx, db); err != nil {
			log.Fatalf("Index creation failed: %v", err)
		}
		fmt.Println("Indexes are in place.")

	case "verify":
		if err := verify(ctx, db, cfg.QuotaLimit); err != nil {
			log.Fatalf("Verification failed: %v", err)
		}
		fmt.Println("Verification completed successfully!")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func verify(ctx context.Context, db *mongo.Database, limit int) error {
	fmt.Printf("Verifying %s (quota limit %d)...\n", db.Name(), limit)

	report, err := database.VerifyIntegrity(ctx, db, limit)
	if err != nil {
		return err
	}

	fmt.Printf("  users:            %d\n", report.Users)
	fmt.Printf("  queries:          %d\n", report.Queries)
	fmt.Printf("  counters outside: %d\n", report.CountersOutside)
	fmt.Printf("  orphan queries:   %d\n", report.OrphanQueries)

	if !report.OK() {
		return fmt.Errorf("integrity check found %d bad counters and %d orphan queries",
			report.CountersOutside, report.OrphanQueries)
	}
	return nil
}
