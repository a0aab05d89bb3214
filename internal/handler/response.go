package handler

import (
	"net/http"

	"popcorn-watchlist-service/internal/model"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, model.APIResponse{
		Code:  status,
		Error: msg,
	})
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, model.APIResponse{
		Code: http.StatusOK,
		Data: data,
	})
}
