package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"popcorn-watchlist-service/internal/middleware"
	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/search"
	"popcorn-watchlist-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// DetailCachePurger clears every cached detail lookup
type DetailCachePurger interface {
	Purge(ctx context.Context) (int64, error)
}

// MoviesHandler serves stateless lookups that bypass the session
type MoviesHandler struct {
	omdb  *service.OMDBService
	cache DetailCachePurger
}

// NewMoviesHandler creates a new MoviesHandler. cache may be nil.
func NewMoviesHandler(omdb *service.OMDBService, cache DetailCachePurger) *MoviesHandler {
	return &MoviesHandler{omdb: omdb, cache: cache}
}

// Search runs a one-off title search
// GET /api/v1/movies?q=inception
func (h *MoviesHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "missing search parameter q")
		return
	}
	if len([]rune(strings.TrimSpace(query))) < search.MinQueryLength {
		respondError(c, http.StatusBadRequest,
			fmt.Sprintf("search parameter q must be at least %d characters", search.MinQueryLength))
		return
	}

	results, err := h.omdb.Search(c.Request.Context(), query)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Data:   results,
		Source: "omdb",
	})
}

// GetMovie returns details for one movie
// GET /api/v1/movies/:id
func (h *MoviesHandler) GetMovie(c *gin.Context) {
	id := c.Param("id")

	detail, hit, err := h.omdb.GetDetailCached(c.Request.Context(), id)
	if err != nil {
		h.lookupFailed(c, err)
		return
	}

	source := "fresh"
	if hit {
		source = "redis-cache"
		c.Set(middleware.CacheSourceKey, source)
	}
	c.JSON(http.StatusOK, model.APIResponse{
		Code:   http.StatusOK,
		Data:   detail,
		Source: source,
	})
}

func (h *MoviesHandler) lookupFailed(c *gin.Context, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, service.ErrMovieNotFound) {
		status = http.StatusNotFound
	}
	respondError(c, status, service.UserMessage(err))
}

// DeleteMovieCache clears the cached detail of one movie
// DELETE /api/v1/movies/:id
func (h *MoviesHandler) DeleteMovieCache(c *gin.Context) {
	id := c.Param("id")
	if err := h.omdb.DeleteCachedDetail(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNoDetailCache) {
			respondError(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Message: "cache cleared for " + id,
	})
}

// DeleteAllMovieCache clears every cached detail and search response
// DELETE /api/v1/movies
func (h *MoviesHandler) DeleteAllMovieCache(c *gin.Context) {
	searchDeleted := h.omdb.PurgeSearchCache()

	var detailDeleted int64
	if h.cache != nil {
		var err error
		detailDeleted, err = h.cache.Purge(c.Request.Context())
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
	}

	log.Info().
		Int("search", searchDeleted).
		Int64("detail", detailDeleted).
		Msg("🗑️ Movie cache cleared")

	c.JSON(http.StatusOK, model.APIResponse{
		Code:    http.StatusOK,
		Message: fmt.Sprintf("cache cleared (%d search, %d detail)", searchDeleted, detailDeleted),
	})
}
