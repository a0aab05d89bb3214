package handler

import (
	"errors"
	"net/http"

	"popcorn-watchlist-service/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// WatchedHandler handles the watched list
type WatchedHandler struct {
	session *session.Session
}

// NewWatchedHandler creates a new WatchedHandler
func NewWatchedHandler(s *session.Session) *WatchedHandler {
	return &WatchedHandler{session: s}
}

// List returns the watched list with its summary
// GET /api/v1/watched
func (h *WatchedHandler) List(c *gin.Context) {
	respondOK(c, gin.H{
		"entries": h.session.Watched(),
		"summary": h.session.Summary(),
	})
}

// Add confirms the open movie into the watched list
// POST /api/v1/watched
func (h *WatchedHandler) Add(c *gin.Context) {
	entry, err := h.session.AddSelected(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNoSelection), errors.Is(err, session.ErrDetailNotReady),
			errors.Is(err, session.ErrNotRated):
			respondError(c, http.StatusConflict, err.Error())
			return
		}
		// The entry is on the list; only persisting it failed.
		log.Error().Err(err).Str("id", entry.ID).Msg("Watched entry not persisted")
		respondError(c, http.StatusInternalServerError, "added but not saved: "+err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"code": http.StatusCreated,
		"data": entry,
	})
}

// Delete removes an entry from the watched list
// DELETE /api/v1/watched/:id
func (h *WatchedHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	removed, err := h.session.DeleteWatched(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		respondError(c, http.StatusNotFound, "movie "+id+" is not on the watched list")
		return
	}
	c.Status(http.StatusNoContent)
}
