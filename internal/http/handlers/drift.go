package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"piquiz_backend/internal/geo"
	"piquiz_backend/internal/http/middleware"
	"piquiz_backend/internal/logger"
	"piquiz_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// DriftStatusQuery reports the drift gate state and the priced candidate set
// for the authenticated user at ?lat=&lon=. Missing coordinates short-circuit
// to NO_LOCATION without touching node data.
func (h *Handler) DriftStatusQuery(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var loc *geo.Point
	latStr, lonStr := c.Query("lat"), c.Query("lon")
	if latStr != "" || lonStr != "" {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lon, errLon := strconv.ParseFloat(lonStr, 64)
		if errLat != nil || errLon != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
			return
		}
		loc = &geo.Point{Latitude: lat, Longitude: lon}
	}

	status, err := h.DriftService.QueryDriftStatus(c.Request.Context(), userID, loc)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			logger.Error("drift status query failed", "user_id", userID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	c.JSON(http.StatusOK, status)
}

type DriftRequest struct {
	NodeID    int64   `json:"node_id" binding:"required,min=1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Drift executes a drift against a dormant node. All gate conditions are
// re-validated server-side; client state is treated as a hint only.
func (h *Handler) Drift(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	var req DriftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	loc := geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}
	receipt, err := h.DriftService.ExecuteDrift(c.Request.Context(), userID, req.NodeID, loc)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			middleware.DriftOutcomes.WithLabelValues("invalid_input").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid coordinates"})
		case errors.Is(err, service.ErrUserNotFound):
			middleware.DriftOutcomes.WithLabelValues("not_found").Inc()
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrInsufficientFunds):
			middleware.DriftOutcomes.WithLabelValues("insufficient_funds").Inc()
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "insufficient share points"})
		case errors.Is(err, service.ErrPreconditionFailed):
			middleware.DriftOutcomes.WithLabelValues("precondition_failed").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "drift not available, re-query status"})
		case errors.Is(err, service.ErrRaceLost):
			middleware.DriftOutcomes.WithLabelValues("race_lost").Inc()
			c.JSON(http.StatusConflict, gin.H{"error": "node was claimed by another pioneer, try again"})
		default:
			middleware.DriftOutcomes.WithLabelValues("internal").Inc()
			logger.Error("drift execution failed", "user_id", userID, "node_id", req.NodeID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	middleware.DriftOutcomes.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"receipt": receipt,
	})
}
