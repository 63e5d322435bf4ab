package config

import "os"

// Config holds the application configuration
type Config struct {
	// Environment
	Environment string
	Port        string

	// Database
	DatabaseURL string

	// Auth
	JWTSecret string

	// Observability
	SentryDSN      string
	MetricsEnabled bool // CloudWatch publishing on/off

	// Seeding
	SeedPresets bool // Insert the built-in catalog after migration
}

func Load() *Config {
	return &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/notegen?sslmode=disable"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		SentryDSN:      getEnv("SENTRY_DSN", ""),
		MetricsEnabled: getEnv("METRICS_ENABLED", "false") == "true",
		SeedPresets:    getEnv("SEED_PRESETS", "true") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

// IsProduction returns true when running with production settings
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
