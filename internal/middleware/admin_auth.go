package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"popcorn-watchlist-service/internal/model"

	"github.com/gin-gonic/gin"
)

// AdminAuth returns a middleware that validates the admin API key.
// If apiKey is empty, authentication is disabled.
func AdminAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		// "Bearer <token>", "ApiKey <token>" or ?api_key=<token>
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("api_key")
		} else {
			token = strings.TrimPrefix(token, "Bearer ")
			token = strings.TrimPrefix(token, "ApiKey ")
		}

		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.APIResponse{
				Code:  401,
				Error: "unauthorized: missing API key",
			})
			return
		}

		if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, model.APIResponse{
				Code:  403,
				Error: "forbidden: invalid API key",
			})
			return
		}

		c.Next()
	}
}
