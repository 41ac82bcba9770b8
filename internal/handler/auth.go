package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VyankateshKedar/sparkAppBackend/internal/middleware"
	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
	"github.com/VyankateshKedar/sparkAppBackend/internal/service"
)

func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrUsernameTaken) {
			respondBadRequest(c, err.Error())
			return
		}
		log.Printf("register failed: email=%s err=%v", req.Email, err)
		respondInternalError(c, "Failed to register")
		return
	}

	token, err := h.tokens.Issue(user.ID, time.Now())
	if err != nil {
		log.Printf("token issue failed: user=%d err=%v", user.ID, err)
		respondInternalError(c, "Failed to register")
		return
	}

	c.JSON(http.StatusCreated, model.AuthResponse{Token: token, User: user})
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.users.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondBadRequest(c, "Invalid credentials")
			return
		}
		log.Printf("login failed: email=%s err=%v", req.Email, err)
		respondInternalError(c, "Failed to log in")
		return
	}

	token, err := h.tokens.Issue(user.ID, time.Now())
	if err != nil {
		log.Printf("token issue failed: user=%d err=%v", user.ID, err)
		respondInternalError(c, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, model.AuthResponse{Token: token, User: user})
}

func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "Not authenticated"})
		return
	}

	user, err := h.users.Me(c.Request.Context(), userID)
	if err != nil {
		log.Printf("get me failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to load account")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) ForgotPassword(c *gin.Context) {
	var req model.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.users.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		log.Printf("forgot password failed: err=%v", err)
		respondInternalError(c, "Failed to start password reset")
		return
	}

	// Same response whether or not the account exists
	c.JSON(http.StatusOK, gin.H{
		"message": "If an account with that email exists, a password reset link has been sent.",
	})
}

func (h *Handler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.users.ResetPassword(c.Request.Context(), &req); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			respondBadRequest(c, err.Error())
			return
		}
		log.Printf("reset password failed: err=%v", err)
		respondInternalError(c, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}
