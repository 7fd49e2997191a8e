package main

import (
	"fmt"
	"log"
	"os"

	"github.com/comparely/backend/config"
	httpDelivery "github.com/comparely/backend/internal/delivery/http"
	"github.com/comparely/backend/internal/infrastructure/cache"
	"github.com/comparely/backend/internal/infrastructure/postgres"
	"github.com/comparely/backend/internal/infrastructure/rainforest"
	"github.com/comparely/backend/internal/infrastructure/storage"
	"github.com/comparely/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting Comparely Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	db, err := postgres.Open(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Printf("Database connected")

	productRepo := postgres.NewProductRepo(db)
	userRepo := postgres.NewUserRepo(db)

	imageStore, err := storage.NewLocalStore(cfg.Storage.BaseDir)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	log.Printf("Image storage: %s (served at %s)", imageStore.BaseDir(), cfg.Storage.PublicPath)

	lookupCache := cache.NewMemoryCache()
	log.Printf("Lookup cache TTL: %s", cfg.Cache.TTL)

	rainforestClient := rainforest.NewClient(cfg.Rainforest.APIKey, cfg.Rainforest.BaseURL)

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		rainforestClient.SetDebug(true)
		log.Printf("Rainforest client debug mode enabled")
	}

	if cfg.Rainforest.APIKey != "" {
		log.Printf("Rainforest API configured: %s", cfg.Rainforest.BaseURL)
	} else {
		log.Printf("WARNING: Rainforest API key not configured - product imports will fail!")
	}

	// Initialize usecase layer
	authService := usecase.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	productService := usecase.NewProductService(productRepo, imageStore)
	importService := usecase.NewImportService(rainforestClient, productRepo, lookupCache, cfg.Cache.TTL)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(authService, productService, importService, imageStore, cfg.Storage.PublicPath)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
