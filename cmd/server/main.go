package main

import (
	"fmt"
	"log"
	"os"

	"github.com/mdcatalog/backend/config"
	httpDelivery "github.com/mdcatalog/backend/internal/delivery/http"
	"github.com/mdcatalog/backend/internal/infrastructure/cache"
	"github.com/mdcatalog/backend/internal/infrastructure/vtex"
	"github.com/mdcatalog/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting mdcatalog backend v0.1.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Catalog feed: %s", cfg.VTEX.BaseURL)
	if cfg.VTEX.InsecureSkipVerify {
		log.Printf("WARNING: TLS certificate verification for the catalog feed is DISABLED")
	}

	debug := cfg.Server.Environment == "development"

	// Feed-response cache is opt-in via cache.ttl
	clientOpts := vtex.ClientOptions{
		Timeout:            cfg.VTEX.Timeout,
		InsecureSkipVerify: cfg.VTEX.InsecureSkipVerify,
		RequestsPerSecond:  cfg.VTEX.RequestsPerSecond,
		Burst:              cfg.VTEX.Burst,
	}
	if cfg.Cache.Type == "memory" && cfg.Cache.TTL > 0 {
		clientOpts.Cache = cache.NewMemoryCache()
		clientOpts.CacheTTL = cfg.Cache.TTL
		log.Printf("Feed cache enabled (TTL: %s)", cfg.Cache.TTL)
	}

	catalogClient := vtex.NewClient(cfg.VTEX.BaseURL, clientOpts)
	if debug {
		catalogClient.SetDebug(true)
		log.Printf("VTEX client debug mode enabled")
	}

	imageRelay := vtex.NewRelay(vtex.RelayOptions{
		Timeout:            cfg.VTEX.Timeout,
		InsecureSkipVerify: cfg.VTEX.InsecureSkipVerify,
	})

	// Initialize usecase layer
	optionService := usecase.NewOptionService(catalogClient, usecase.OptionServiceConfig{
		EnableDebugLogging: debug,
	})

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(optionService, imageRelay)

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
