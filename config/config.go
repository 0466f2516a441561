package config

import (
	"os"
	"strings"
)

type Config struct {
	Port           string
	Environment    string
	AllowedOrigins []string
	JWTSecret      string

	// Google Apps Script endpoint that appends submitted checklists to the
	// maintenance spreadsheet. Empty disables forwarding.
	SheetsURL string

	// StorageBackend selects "memory" (default) or "supabase".
	StorageBackend     string
	SupabaseURL        string
	SupabaseServiceKey string
}

func NewConfig() *Config {
	allowedOriginsStr := os.Getenv("ALLOWED_ORIGINS")
	allowedOrigins := []string{"http://localhost:3000"}
	if allowedOriginsStr != "" {
		allowedOrigins = strings.Split(allowedOriginsStr, ",")
	}

	sheetsURL := os.Getenv("GOOGLE_APPS_SCRIPT_URL")
	if sheetsURL == "" {
		sheetsURL = os.Getenv("GOOGLE_SCRIPT_URL")
	}

	return &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Environment:        getEnvOrDefault("ENVIRONMENT", "development"),
		AllowedOrigins:     allowedOrigins,
		JWTSecret:          getEnvOrDefault("JWT_SECRET", "pulse-hospital-dev-secret"),
		SheetsURL:          sheetsURL,
		StorageBackend:     getEnvOrDefault("STORAGE_BACKEND", "memory"),
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
