package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// defaultOMDBAPIKey is the key the front end has always shipped with
const defaultOMDBAPIKey = "f4a95b19"

// Watched list backends
const (
	StoreRedis  = "redis"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config holds all configuration for the service
type Config struct {
	Port        string
	GinMode     string
	RedisURL    string
	AdminAPIKey string

	OMDBAPIKey  string
	OMDBBaseURL string
	HTTPTimeout time.Duration

	WatchedStore string // redis | file | memory
	WatchedKey   string
	WatchedFile  string

	CacheTTLSearch time.Duration
	CacheTTLDetail time.Duration

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379"),
		AdminAPIKey: os.Getenv("ADMIN_API_KEY"),

		OMDBAPIKey:  getEnv("OMDB_API_KEY", defaultOMDBAPIKey),
		OMDBBaseURL: getEnv("OMDB_BASE_URL", "https://www.omdbapi.com/"),
		HTTPTimeout: getDuration("HTTP_TIMEOUT", 10*time.Second),

		WatchedStore: strings.ToLower(getEnv("WATCHED_STORE", StoreRedis)),
		WatchedKey:   getEnv("WATCHED_KEY", "popcorn:watched"),
		WatchedFile:  getEnv("WATCHED_FILE", "data/watched.json"),

		CacheTTLSearch: getDuration("CACHE_TTL_SEARCH", 30*time.Minute),
		CacheTTLDetail: getDuration("CACHE_TTL_DETAIL", 24*time.Hour),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  os.Getenv("LOG_FILE"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("Invalid duration, using default")
		return defaultValue
	}
	return d
}
