package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VyankateshKedar/sparkAppBackend/internal/middleware"
	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
	"github.com/VyankateshKedar/sparkAppBackend/internal/service"
)

// PublicProfile serves a profile page by username and records the view.
// The response never waits on tracking and never fails because of it.
func (h *Handler) PublicProfile(c *gin.Context) {
	username := c.Param("username")

	user, links, err := h.users.PublicProfile(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		log.Printf("public profile failed: username=%s err=%v", username, err)
		respondInternalError(c, "Failed to load profile")
		return
	}

	h.analytics.RecordProfileView(c.Request.Context(), user.ID, visitFromRequest(c))

	c.JSON(http.StatusOK, gin.H{
		"user":  user.Public(),
		"links": links,
	})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			respondBadRequest(c, err.Error())
			return
		}
		log.Printf("update profile failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req model.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.users.UpdateSettings(c.Request.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrWrongPassword) {
			respondBadRequest(c, err.Error())
			return
		}
		log.Printf("update settings failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to update settings")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteAccount(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.users.DeleteAccount(c.Request.Context(), userID); err != nil {
		log.Printf("delete account failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to delete account")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
