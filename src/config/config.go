package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port               string
	LogLevel           string
	MaxUploadSizeBytes int64

	// Uploaded datasets live in memory for DatasetExpiration after their last
	// upload; the janitor sweeps expired entries every DatasetCleanupInterval.
	DatasetExpiration      time.Duration
	DatasetCleanupInterval time.Duration

	// Optional YAML file extending the built-in column synonym table.
	ColumnSynonymsPath string

	AllowedOrigins []string

	RateLimitInterval time.Duration
	RateLimitBurst    int
}

var Cfg *AppConfig

func LoadConfig() {
	errEnv := godotenv.Load()
	if errEnv != nil {
		log.Println("Info: No .env file found or error loading .env file. Relying on OS environment variables and defaults. Error (if any):", errEnv)
	} else {
		log.Println(".env file loaded successfully.")
	}

	log.Println("Loading application configuration...")
	Cfg = Load()

	log.Printf("Configuration loaded: Port=%s, LogLevel=%s, DatasetExpiration=%s, SynonymsPath=%q",
		Cfg.Port, Cfg.LogLevel, Cfg.DatasetExpiration, Cfg.ColumnSynonymsPath)
}

// Load reads the configuration from the process environment only.
func Load() *AppConfig {
	maxUploadSizeBytesStr := getEnv("MAX_UPLOAD_SIZE_BYTES", "10485760")
	maxUploadSizeBytes, err := strconv.ParseInt(maxUploadSizeBytesStr, 10, 64)
	if err != nil || maxUploadSizeBytes <= 0 {
		log.Printf("WARNING: Invalid MAX_UPLOAD_SIZE_BYTES format '%s'. Using default 10MB. Error: %v", maxUploadSizeBytesStr, err)
		maxUploadSizeBytes = 10 * 1024 * 1024
	}

	return &AppConfig{
		Port:                   getEnv("PORT", "8080"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		MaxUploadSizeBytes:     maxUploadSizeBytes,
		DatasetExpiration:      getEnvAsDuration("DATASET_EXPIRATION", 60*time.Minute),
		DatasetCleanupInterval: getEnvAsDuration("DATASET_CLEANUP_INTERVAL", 10*time.Minute),
		ColumnSynonymsPath:     getEnv("COLUMN_SYNONYMS_PATH", ""),
		AllowedOrigins:         splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		RateLimitInterval:      getEnvAsDuration("RATE_LIMIT_INTERVAL", 100*time.Millisecond),
		RateLimitBurst:         getEnvAsInt("RATE_LIMIT_BURST", 30),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using default: %s", key, fallback)
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	log.Printf("Invalid integer value for %s ('%s'), using default: %d", key, valueStr, fallback)
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if value, err := time.ParseDuration(valueStr); err == nil && value > 0 {
		return value
	}
	log.Printf("Invalid duration value for %s ('%s'), using default: %s", key, valueStr, fallback.String())
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
