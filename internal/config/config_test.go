package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUnit_Load_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "OMDB_API_KEY", "WATCHED_STORE", "CACHE_TTL_SEARCH", "ADMIN_API_KEY"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultOMDBAPIKey, cfg.OMDBAPIKey)
	assert.Equal(t, StoreRedis, cfg.WatchedStore)
	assert.Equal(t, "popcorn:watched", cfg.WatchedKey)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTLSearch)
	assert.Empty(t, cfg.AdminAPIKey)
}

func TestUnit_Load_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("OMDB_API_KEY", "abc123")
	t.Setenv("WATCHED_STORE", "FILE")
	t.Setenv("WATCHED_FILE", "/tmp/w.json")
	t.Setenv("CACHE_TTL_DETAIL", "2h")
	t.Setenv("HTTP_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "abc123", cfg.OMDBAPIKey)
	assert.Equal(t, StoreFile, cfg.WatchedStore)
	assert.Equal(t, "/tmp/w.json", cfg.WatchedFile)
	assert.Equal(t, 2*time.Hour, cfg.CacheTTLDetail)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout, "invalid durations fall back to the default")
}
