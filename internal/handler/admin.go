package handler

import (
	"net/http"

	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/repository"
	"popcorn-watchlist-service/internal/service"
	"popcorn-watchlist-service/internal/session"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles admin-related endpoints
type AdminHandler struct {
	omdb         *service.OMDBService
	session      *session.Session
	metrics      *repository.Metrics
	watchedStore string
}

// NewAdminHandler creates a new AdminHandler. metrics may be nil.
func NewAdminHandler(omdb *service.OMDBService, s *session.Session, metrics *repository.Metrics, watchedStore string) *AdminHandler {
	return &AdminHandler{
		omdb:         omdb,
		session:      s,
		metrics:      metrics,
		watchedStore: watchedStore,
	}
}

// GetStatus returns service status
// GET /api/v1/status
func (h *AdminHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "ok",
		"omdb_configured":   h.omdb.IsConfigured(),
		"search_cache_size": h.omdb.SearchCacheLen(),
		"watched_store":     h.watchedStore,
		"watched_count":     len(h.session.Watched()),
		"metrics_enabled":   h.metrics != nil,
	})
}

func (h *AdminHandler) metricsEnabled(c *gin.Context) bool {
	if h.metrics == nil {
		respondError(c, http.StatusServiceUnavailable, "metrics disabled")
		return false
	}
	return true
}

// GetAnalytics returns API analytics
// GET /api/v1/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	if !h.metricsEnabled(c) {
		return
	}

	stats, err := h.metrics.GetOverallStats(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, stats)
}

// GetEndpointStats returns stats for a specific endpoint
// GET /api/v1/analytics/endpoint?path=/api/v1/search
func (h *AdminHandler) GetEndpointStats(c *gin.Context) {
	if !h.metricsEnabled(c) {
		return
	}

	path := c.Query("path")
	if path == "" {
		respondError(c, http.StatusBadRequest, "path parameter required")
		return
	}

	stats, err := h.metrics.GetAPIStats(c.Request.Context(), path)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respondOK(c, stats)
}

// ResetAnalytics resets all analytics data
// DELETE /api/v1/analytics
func (h *AdminHandler) ResetAnalytics(c *gin.Context) {
	if !h.metricsEnabled(c) {
		return
	}

	if err := h.metrics.ResetMetrics(c.Request.Context()); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Message: "analytics reset",
	})
}
