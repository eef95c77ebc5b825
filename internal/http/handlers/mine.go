package handlers

import (
	"errors"
	"net/http"

	"piquiz_backend/internal/geo"
	"piquiz_backend/internal/logger"
	"piquiz_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type MineRequest struct {
	NodeID    int64   `json:"node_id" binding:"required,min=1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Mine awards share points for mining a nearby open node.
func (h *Handler) Mine(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req MineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	loc := geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}
	result, err := h.MineService.Mine(c.Request.Context(), userID, req.NodeID, loc)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		case errors.Is(err, service.ErrNodeNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		case errors.Is(err, service.ErrNodeClosed):
			c.JSON(http.StatusConflict, gin.H{"error": "node closed for mining"})
		case errors.Is(err, service.ErrOutOfRange):
			c.JSON(http.StatusConflict, gin.H{"error": "node out of mining range"})
		case errors.Is(err, service.ErrMineCooldown):
			c.JSON(http.StatusConflict, gin.H{"error": "node was mined too recently"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			logger.Error("mine failed", "user_id", userID, "node_id", req.NodeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
