package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/presupuestalo/budget-pdf-service/api"
	"github.com/presupuestalo/budget-pdf-service/internal/auth"
	"github.com/presupuestalo/budget-pdf-service/internal/db"
	"github.com/presupuestalo/budget-pdf-service/internal/models"
	"github.com/presupuestalo/budget-pdf-service/internal/storage"
)

func main() {
	// Initialize JWT
	if err := auth.Init(); err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	log.Println("JWT authentication initialized")

	// Initialize database connection pool
	if err := db.Init(); err != nil {
		log.Printf("Warning: Database not available: %v", err)
		log.Println("Budget and tariff lookups will fail until it comes back")
	} else {
		defer db.Close()
		log.Println("Database connection pool initialized")
	}

	// Initialize MinIO storage
	if err := storage.Init(); err != nil {
		log.Printf("Warning: MinIO storage not available: %v", err)
		log.Println("Generated PDFs will not be archived")
	} else {
		log.Println("MinIO storage initialized")
	}

	// Load configuration
	config, err := loadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create API handler
	handler := api.NewHandler(config)
	router := handler.SetupRoutes()

	// Add login endpoint
	router.HandleFunc("/api/login", auth.LoginHandler).Methods("POST")

	// Wrap router with JWT middleware (skips /health and /api/login)
	protectedRouter := auth.JWTMiddleware(router)

	// Start server
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Printf("Starting Budget PDF Service v%s on %s", api.Version, addr)
	log.Printf("Renderer: %s", config.Renderer.BaseURL)
	log.Printf("Database: %v", db.Pool != nil)
	log.Printf("Storage: %v", storage.Client != nil)
	log.Printf("Trace dumps: %v", config.Trace.Enabled)
	log.Printf("Endpoints:")
	log.Printf("  POST http://%s/api/login                        - Authenticate", addr)
	log.Printf("  GET  http://%s/api/presupuestos                 - List budgets (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/presupuestos/{id}            - Get single budget (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/presupuestos/{id}/validar    - Validate budget (requires JWT)", addr)
	log.Printf("  GET  http://%s/api/presupuestos/{id}/payload    - Build document payload (requires JWT)", addr)
	log.Printf("  POST http://%s/api/presupuestos/{id}/pdf        - Generate PDF (requires JWT)", addr)
	log.Printf("  GET  http://%s/health                           - Health check", addr)

	if err := http.ListenAndServe(addr, protectedRouter); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadConfig(path string) (*models.Config, error) {
	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var config models.Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables if present
	if port := os.Getenv("PORT"); port != "" {
		fmt.Sscanf(port, "%d", &config.Port)
	}
	if host := os.Getenv("HOST"); host != "" {
		config.Host = host
	}
	if baseURL := os.Getenv("RENDERER_BASE_URL"); baseURL != "" {
		config.Renderer.BaseURL = baseURL
	}
	if baseURL := os.Getenv("ASSETS_BASE_URL"); baseURL != "" {
		config.Assets.BaseURL = baseURL
	}
	if dir := os.Getenv("TRACE_DIR"); dir != "" {
		config.Trace.Enabled = true
		config.Trace.Dir = dir
	}

	return &config, nil
}
