package middleware

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CacheSourceKey is set by handlers that answered from a cache
const CacheSourceKey = "cache_source"

// MetricsRecorder stores one observation per API call
type MetricsRecorder interface {
	RecordAPICall(ctx context.Context, path string, statusCode int, latencyMs float64, cacheHit bool) error
}

// Metrics returns a middleware that records API metrics.
// A nil recorder disables it.
func Metrics(recorder MetricsRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil || !strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		latency := float64(time.Since(start).Milliseconds())
		cacheHit := c.GetString(CacheSourceKey) != ""

		// The request context is done once the client has its response.
		ctx := context.WithoutCancel(c.Request.Context())
		if err := recorder.RecordAPICall(ctx, normalizePath(c.Request.URL.Path), c.Writer.Status(), latency, cacheHit); err != nil {
			log.Warn().Err(err).Msg("Failed to record metrics")
		}
	}
}

var imdbIDPattern = regexp.MustCompile(`^tt\d+$`)

// normalizePath groups paths with IDs: /api/v1/movies/tt0113277 -> /api/v1/movies/:id
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if imdbIDPattern.MatchString(part) || isNumeric(part) {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

// isNumeric checks if a string is purely numeric
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
