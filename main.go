package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Zaffarpulse/pulse-hospital-app/config"
	"github.com/Zaffarpulse/pulse-hospital-app/routes"
	"github.com/Zaffarpulse/pulse-hospital-app/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.NewConfig()

	// Select storage backend; memory is volatile by design
	var st store.Storage
	if cfg.StorageBackend == "supabase" {
		st = store.NewSupabaseStorage(config.NewSupabaseClient(cfg))
	} else {
		st = store.NewMemStorage()
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.Default()

	// Setup CORS middleware
	router.Use(config.CORSMiddleware(cfg))

	// Setup routes
	routes.SetupRoutes(router, st, cfg)

	// Start server
	log.Printf("Server starting on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
