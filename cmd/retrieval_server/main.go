package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/Dhruv27Mishra/go-retrieval-engine/api"
	"github.com/Dhruv27Mishra/go-retrieval-engine/config"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/analytics"
	"github.com/Dhruv27Mishra/go-retrieval-engine/internal/engine"
)

// maxRequestBodyBytes caps document and corpus payloads at 32 MiB.
const maxRequestBodyBytes = 32 << 20

func main() {
	// Define command-line flags; flags override the config file, which
	// overrides RE_* environment variables and the built-in defaults.
	var (
		help       = flag.Bool("help", false, "Show help message")
		configPath = flag.String("config", "", "Path to a YAML config file")
		port       = flag.String("port", "", "Port to run the server on")
		dataDir    = flag.String("data-dir", "", "Directory to store index data")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Retrieval Engine Server - positional, biword and phonetic text retrieval\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                              # Start server on default port 8080\n", os.Args[0])
		fmt.Printf("  %s --port 9000                  # Start server on port 9000\n", os.Args[0])
		fmt.Printf("  %s --config ./server.yaml       # Load settings from a config file\n", os.Args[0])
		fmt.Printf("  %s --data-dir /var/lib/retrieval # Use custom data directory\n", os.Args[0])
		return
	}

	cfg, err := config.LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	analyticsFile := cfg.AnalyticsFile
	if !filepath.IsAbs(analyticsFile) {
		analyticsFile = filepath.Join(cfg.DataDir, analyticsFile)
	}

	// Initialize the retrieval engine
	log.Printf("Using data directory: %s", cfg.DataDir)
	retrievalEngine := engine.NewEngine(cfg.DataDir)
	defer retrievalEngine.Close()

	analyticsService := analytics.NewService(retrievalEngine, analyticsFile)

	// Initialize Gin router
	router := gin.Default()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.CORSMiddleware())
	router.Use(api.RequestSizeLimitMiddleware(maxRequestBodyBytes))

	// Setup API routes
	api.SetupRoutes(router, retrievalEngine, analyticsService)

	// Start the server
	log.Printf("Starting server on port %s...", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
