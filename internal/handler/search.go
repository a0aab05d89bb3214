package handler

import (
	"net/http"

	"popcorn-watchlist-service/internal/session"

	"github.com/gin-gonic/gin"
)

// SearchHandler drives the session's search box
type SearchHandler struct {
	session *session.Session
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(s *session.Session) *SearchHandler {
	return &SearchHandler{session: s}
}

// SetQuery handles a change of the search box
// PUT /api/v1/query (body: { "query": "inception" })
func (h *SearchHandler) SetQuery(c *gin.Context) {
	var body struct {
		Query *string `json:"query"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Query == nil {
		respondError(c, http.StatusBadRequest, "invalid body, expected {\"query\": string}")
		return
	}

	state := h.session.SetQuery(*body.Query)
	if waitRequested(c) {
		h.session.WaitSearch()
		state = h.session.Search()
	}
	respondOK(c, state)
}

// GetSearch returns the search state
// GET /api/v1/search[?wait=true]
func (h *SearchHandler) GetSearch(c *gin.Context) {
	if waitRequested(c) {
		h.session.WaitSearch()
	}
	respondOK(c, h.session.Search())
}

// waitRequested lets non-polling clients block until the pending request settles
func waitRequested(c *gin.Context) bool {
	switch c.Query("wait") {
	case "1", "true":
		return true
	}
	return false
}
