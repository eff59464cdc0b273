package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Store configuration
	StoreBackend    string
	SpreadsheetID   string
	CredentialsFile string

	// Venue layout
	VenueRows        int
	VenueSeatsPerRow int

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubChannel      string

	// Rate limiting
	ClaimRateLimit  int
	ClaimRateWindow time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Store
		StoreBackend:    getEnv("STORE_BACKEND", "memory"),
		SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		// Venue
		VenueRows:        getEnvAsInt("VENUE_ROWS", 10),
		VenueSeatsPerRow: getEnvAsInt("VENUE_SEATS_PER_ROW", 20),

		// Redis
		RedisURL:      getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		CacheTTL:      getEnvAsDuration("CACHE_TTL", "15s"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubChannel:      getEnv("PUBNUB_CHANNEL", "seat-events"),

		// Rate limiting
		ClaimRateLimit:  getEnvAsInt("CLAIM_RATE_LIMIT", 30),
		ClaimRateWindow: getEnvAsDuration("CLAIM_RATE_WINDOW", "1m"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
