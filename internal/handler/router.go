package handler

import (
	"net/http"
	"time"

	"popcorn-watchlist-service/internal/middleware"
	"popcorn-watchlist-service/internal/repository"
	"popcorn-watchlist-service/internal/service"
	"popcorn-watchlist-service/internal/session"

	"github.com/gin-gonic/gin"
)

// RouterDeps are the collaborators the HTTP API is built from.
// Cache and Metrics are optional.
type RouterDeps struct {
	Session      *session.Session
	OMDB         *service.OMDBService
	Cache        *repository.Cache
	Metrics      *repository.Metrics
	AdminAPIKey  string
	WatchedStore string
}

// NewRouter registers every route of the service
func NewRouter(deps RouterDeps) *gin.Engine {
	var recorder middleware.MetricsRecorder
	if deps.Metrics != nil {
		recorder = deps.Metrics
	}
	var purger DetailCachePurger
	if deps.Cache != nil {
		purger = deps.Cache
	}

	searchHandler := NewSearchHandler(deps.Session)
	detailHandler := NewDetailHandler(deps.Session)
	watchedHandler := NewWatchedHandler(deps.Session)
	moviesHandler := NewMoviesHandler(deps.OMDB, purger)
	adminHandler := NewAdminHandler(deps.OMDB, deps.Session, deps.Metrics, deps.WatchedStore)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.CORS())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Unix(),
		})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/status", adminHandler.GetStatus)

		// Session: search box, detail panel, watched list
		api.PUT("/query", searchHandler.SetQuery)
		api.GET("/search", searchHandler.GetSearch)
		api.PUT("/selection", detailHandler.Select)
		api.GET("/selection", detailHandler.GetSelection)
		api.DELETE("/selection", detailHandler.CloseSelection)
		api.PUT("/selection/rating", detailHandler.Rate)
		api.GET("/watched", watchedHandler.List)
		api.POST("/watched", watchedHandler.Add)
		api.DELETE("/watched/:id", watchedHandler.Delete)

		// Stateless lookups
		api.GET("/movies", moviesHandler.Search)
		api.GET("/movies/:id", moviesHandler.GetMovie)
	}

	admin := r.Group("/api/v1")
	admin.Use(middleware.AdminAuth(deps.AdminAPIKey))
	{
		admin.GET("/analytics", adminHandler.GetAnalytics)
		admin.GET("/analytics/endpoint", adminHandler.GetEndpointStats)
		admin.DELETE("/analytics", adminHandler.ResetAnalytics)

		admin.DELETE("/movies/:id", moviesHandler.DeleteMovieCache)
		admin.DELETE("/movies", moviesHandler.DeleteAllMovieCache)
	}

	return r
}
