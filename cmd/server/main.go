// cmd/server/main.go
package main

import (
	"fmt"
	"os"

	"github.com/healthtrack/healthtrack-backend/api"
	"github.com/healthtrack/healthtrack-backend/config"
	"github.com/healthtrack/healthtrack-backend/internal/logger"
	"github.com/healthtrack/healthtrack-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

func main() {
	customLog.Println("Starting HealthTrack Backend server...")

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		customLog.Fatalf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	// 2. Initialize Database Connection
	db, err := storage.ConnectDB(cfg)
	if err != nil {
		customLog.Fatalf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer func() {
		customLog.Println("Closing database connection...")
		if err := db.Close(); err != nil {
			customLog.Printf("Error closing database: %v", err)
		}
	}()

	// 3. Setup Router (passing dependencies)
	router := api.SetupRouter(db, cfg)

	// 4. Start Server
	customLog.Printf("Server listening on port %s", cfg.ServerPort)
	if err := router.Run(fmt.Sprintf(":%s", cfg.ServerPort)); err != nil {
		customLog.Fatalf("Failed to start server: %v", err)
	}
}
