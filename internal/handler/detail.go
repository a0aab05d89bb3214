package handler

import (
	"errors"
	"net/http"

	"popcorn-watchlist-service/internal/rating"
	"popcorn-watchlist-service/internal/session"

	"github.com/gin-gonic/gin"
)

// DetailHandler handles the detail panel of the session
type DetailHandler struct {
	session *session.Session
}

// NewDetailHandler creates a new DetailHandler
func NewDetailHandler(s *session.Session) *DetailHandler {
	return &DetailHandler{session: s}
}

// Select opens a movie, or closes it when it is already open
// PUT /api/v1/selection (body: { "id": "tt1375666" })
func (h *DetailHandler) Select(c *gin.Context) {
	var body struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ID == "" {
		respondError(c, http.StatusBadRequest, "missing movie id")
		return
	}

	if !h.session.Select(c.Request.Context(), body.ID) {
		respondOK(c, gin.H{"selected": false})
		return
	}
	if waitRequested(c) {
		h.session.WaitSelection()
	}
	h.GetSelection(c)
}

// GetSelection returns the open detail panel
// GET /api/v1/selection[?wait=true]
func (h *DetailHandler) GetSelection(c *gin.Context) {
	if waitRequested(c) {
		h.session.WaitSelection()
	}
	sel, err := h.session.Selection()
	if err != nil {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	respondOK(c, sel)
}

// CloseSelection closes the detail panel (escape key)
// DELETE /api/v1/selection
func (h *DetailHandler) CloseSelection(c *gin.Context) {
	h.session.Close()
	c.Status(http.StatusNoContent)
}

// Rate records the star rating of the open movie
// PUT /api/v1/selection/rating (body: { "rating": 8 })
func (h *DetailHandler) Rate(c *gin.Context) {
	var body struct {
		Rating int `json:"rating"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid body, expected {\"rating\": 1-10}")
		return
	}

	if err := h.session.Rate(body.Rating); err != nil {
		switch {
		case errors.Is(err, session.ErrNoSelection):
			respondError(c, http.StatusConflict, err.Error())
		case errors.Is(err, rating.ErrOutOfRange):
			respondError(c, http.StatusBadRequest, err.Error())
		default:
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	h.GetSelection(c)
}
