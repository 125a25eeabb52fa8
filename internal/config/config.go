package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. The broker knobs tune
// behavior only; none of them change the wire protocol.
type Config struct {
	Port string
	Env  string

	// Broker tuning
	MaxConnections     int
	RateLimitMessages  int
	RateLimitWindow    time.Duration
	MaxMessageLength   int
	MaxMediaSize       int64 // reserved for media messages, not validated yet
	RoomCleanupDelay   time.Duration
	MaxMessagesPerRoom int
	HistoryOnJoin      int

	// CORS / WebSocket origins. Empty means allow all (the extension
	// connects from arbitrary pages).
	AllowedOrigins []string
}

// Load reads configuration from environment variables. In development, it
// loads from a .env file if present.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "3000"),
		Env:                getEnv("ENV", "development"),
		MaxConnections:     getEnvInt("MAX_CONNECTIONS", 1000),
		RateLimitMessages:  getEnvInt("RATE_LIMIT_MESSAGES", 15),
		RateLimitWindow:    getEnvDuration("RATE_LIMIT_WINDOW", 10*time.Second),
		MaxMessageLength:   getEnvInt("MAX_MESSAGE_LENGTH", 1000),
		MaxMediaSize:       int64(getEnvInt("MAX_MEDIA_SIZE", 5*1024*1024)),
		RoomCleanupDelay:   getEnvDuration("ROOM_CLEANUP_DELAY", 5*time.Minute),
		MaxMessagesPerRoom: getEnvInt("MAX_MESSAGES_PER_ROOM", 100),
		HistoryOnJoin:      getEnvInt("HISTORY_ON_JOIN", 50),
	}

	// Parse allowed origins (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, entry := range strings.Split(origins, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, entry)
			}
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
