package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration

	PageSize     int
	CacheTTL     time.Duration
	ActaTemplate string
	VocabPath    string

	CORSOrigins   string
	EnableMetrics bool
	EnableSwagger bool
}

func Load() *Config {
	config := &Config{
		JWTSecret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTIssuer:     getEnv("JWT_ISS", "inventario-ti"),
		JWTAudience:   getEnv("JWT_AUD", "inventario-ti"),
		JWTExpiry:     24 * time.Hour, // Default to 24 hours
		PageSize:      1000,
		CacheTTL:      time.Minute,
		ActaTemplate:  getEnv("ACTA_TEMPLATE", "plantillas/acta_entrega.xlsx"),
		VocabPath:     os.Getenv("VOCAB_PATH"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		EnableMetrics: os.Getenv("ENABLE_METRICS") == "true",
		EnableSwagger: os.Getenv("ENABLE_SWAGGER") == "true",
	}

	// Parse JWT expiry from environment if provided
	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}

	if v := os.Getenv("PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.PageSize = n
		}
	}

	if v := os.Getenv("CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil && ttl > 0 {
			config.CacheTTL = ttl
		}
	}

	return config
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET cannot be empty")
	}
	if len(c.JWTSecret) < 32 {
		return errors.New("JWT_SECRET must be at least 32 characters")
	}
	if os.Getenv("ENVIRONMENT") == "production" && c.JWTSecret == "your-secret-key-change-in-production" {
		return errors.New("JWT_SECRET must be changed from the default in production")
	}
	if c.JWTIssuer == "" {
		return errors.New("JWT_ISS cannot be empty")
	}
	if c.JWTAudience == "" {
		return errors.New("JWT_AUD cannot be empty")
	}
	if c.JWTExpiry < time.Minute {
		return fmt.Errorf("JWT_EXPIRY too short: %v", c.JWTExpiry)
	}
	if c.JWTExpiry > 30*24*time.Hour {
		return fmt.Errorf("JWT_EXPIRY too long: %v", c.JWTExpiry)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive: %d", c.PageSize)
	}
	return nil
}

// LoadAndValidate loads the configuration and validates it.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
