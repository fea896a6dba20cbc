package main

import (
	"log"
	"net/http"
	"os"

	"github.com/jbautista-a11y/inventario-ti/internal"
	"github.com/jbautista-a11y/inventario-ti/internal/config"

	"go.uber.org/zap"
)

func main() {
	// Load and validate configuration
	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer logger.Sync()

	// Validate database connection string
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		logger.Fatal("DB_DSN environment variable is required")
	}

	// Create and start server
	srv := internal.NewServer(dsn, cfg, logger)

	logger.Info("starting inventario-ti server",
		zap.String("jwt_issuer", cfg.JWTIssuer),
		zap.String("jwt_audience", cfg.JWTAudience),
		zap.Duration("jwt_expiry", cfg.JWTExpiry),
		zap.Int("page_size", cfg.PageSize),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.String("addr", ":8080"))

	logger.Fatal("server stopped", zap.Error(http.ListenAndServe(":8080", srv.Router)))
}
