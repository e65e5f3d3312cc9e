package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"luxcheck/internal/config"
	"luxcheck/internal/container"
	"luxcheck/internal/migration"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create dependency injection container
	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	// Run history is optional
	if err := appContainer.Connect(ctx); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if appContainer.DB != nil {
		if err := migration.NewRunner().Run(ctx, appContainer.DB); err != nil {
			log.Fatalf("Database migration failed: %v", err)
		}
	}

	stats := appContainer.Catalog.Catalog.Stats()
	log.Printf("Standards: %d records from %s (%s)", stats.Total, appContainer.Catalog.Source, appContainer.Catalog.Status)

	// Start the server
	log.Printf("Starting luxcheck server on port %s", appConfig.Server.Port)
	if err := appContainer.APIServer().Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
