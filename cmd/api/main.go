package main

import (
	"fmt"
	"log"
	"os"

	"github.com/saiharshith312004/performance-dashboard/internal/api"
	"github.com/saiharshith312004/performance-dashboard/internal/collector"
	"github.com/saiharshith312004/performance-dashboard/internal/config"
	"github.com/saiharshith312004/performance-dashboard/internal/dashboard"
	"github.com/saiharshith312004/performance-dashboard/internal/storage"
	"github.com/saiharshith312004/performance-dashboard/internal/storage/postgres"
	"github.com/saiharshith312004/performance-dashboard/internal/storage/sqlite"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize storage
	var store storage.Storage
	switch cfg.StorageType {
	case "postgres":
		store, err = postgres.NewPostgresStorage(cfg.PostgresURL)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL storage: %v", err)
		}
	default:
		store, err = sqlite.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite storage: %v", err)
		}
	}
	defer store.Close()

	// Initialize collector
	var coll collector.Collector
	switch cfg.CollectorType {
	case "fixture":
		coll = collector.NewFixtureCollector(cfg.FixturePath)
	default:
		coll = collector.NewGitHubCollector(cfg.GitHubToken)
	}

	// Initialize dashboard service
	svc := dashboard.NewService(coll, store, cfg.WindowDays)

	// Initialize handler
	handler := api.NewHandler(svc)

	// Setup routes
	router := api.SetupRoutes(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	log.Printf("Starting API server on %s", addr)
	log.Printf("Storage type: %s, collector type: %s, window: %d days", cfg.StorageType, cfg.CollectorType, cfg.WindowDays)

	if err := router.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}
