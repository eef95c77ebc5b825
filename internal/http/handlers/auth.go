package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"piquiz_backend/internal/domain"
	"piquiz_backend/internal/repository"
	"piquiz_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	AccessToken string `json:"access_token" binding:"required"`
}

// Auth resolves a Pi platform access token to a user, creating the user on
// first sign-in, and returns a session JWT.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ctx := c.Request.Context()

	var piID, username string

	// DEV MODE: skip platform verification, token doubles as the pi uid
	if os.Getenv("DEV_MODE") == "true" {
		piID = strings.TrimSpace(req.AccessToken)
		if piID == "" {
			piID = "dev-pioneer"
		}
		username = fmt.Sprintf("dev_%s", piID)
	} else {
		if len(req.AccessToken) > 4096 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "access_token too long"})
			return
		}

		identity, err := h.PiAuth.VerifyAccessToken(ctx, req.AccessToken)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid access token"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity verification failed"})
			return
		}
		piID = identity.UID
		username = identity.Username
	}

	user, err := h.UserRepo.GetByPiID(ctx, piID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
			return
		}
		user = &domain.User{
			PiID:     piID,
			Username: username,
		}
		if err := h.UserRepo.Create(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
	}

	token, err := service.GenerateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":           user.ID,
			"pi_id":        user.PiID,
			"username":     user.Username,
			"share_points": user.SharePoints,
			"drift_count":  user.DriftCount,
		},
	})
}
