package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	GoogleMapsAPIKey  string
	OpenWeatherAPIKey string

	// HTTPTimeout bounds every outbound call: geocoding, weather, forecast,
	// title scraping, attachment downloads.
	HTTPTimeout time.Duration

	DatabasePath  string
	AttachmentDir string

	// StatsInterval controls how often the store-stats job runs.
	StatsInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.GoogleMapsAPIKey = os.Getenv("GOOGLE_MAPS_API_KEY")
	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	statsStr := getenvDefault("STATS_INTERVAL", "24h")
	statsInterval, err := time.ParseDuration(statsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_INTERVAL: %w", err)
	}
	cfg.StatsInterval = statsInterval

	cfg.DatabasePath = getenvDefault("DATABASE_PATH", "baubles.db")
	cfg.AttachmentDir = getenvDefault("ATTACHMENT_DIR", "data/attachments")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
