package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VyankateshKedar/sparkAppBackend/internal/middleware"
	"github.com/VyankateshKedar/sparkAppBackend/internal/service"
	"github.com/VyankateshKedar/sparkAppBackend/internal/visitor"
)

// HealthChecker is anything that can report its connectivity.
type HealthChecker interface {
	Health(ctx context.Context) error
}

type Handler struct {
	users     *service.UserService
	links     *service.LinkService
	analytics *service.AnalyticsService
	tokens    *middleware.TokenIssuer
	postgres  HealthChecker
	redis     HealthChecker
}

func NewHandler(
	users *service.UserService,
	links *service.LinkService,
	analytics *service.AnalyticsService,
	tokens *middleware.TokenIssuer,
	postgres HealthChecker,
	redis HealthChecker,
) *Handler {
	return &Handler{
		users:     users,
		links:     links,
		analytics: analytics,
		tokens:    tokens,
		postgres:  postgres,
		redis:     redis,
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}

func respondNotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "not_found",
		"message": message,
	})
}

// respondInternalError hides error details from the response; the cause is
// already in the log by the time this is called.
func respondInternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": message,
	})
}

// visitFromRequest captures the request context handed to the event recorder.
func visitFromRequest(c *gin.Context) visitor.Visit {
	return visitor.Visit{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referrer:  c.Request.Referer(),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

func (h *Handler) HealthDetailed(c *gin.Context) {
	ctx := c.Request.Context()

	status := http.StatusOK
	postgres := "connected"
	if err := h.postgres.Health(ctx); err != nil {
		postgres = "unreachable"
		status = http.StatusServiceUnavailable
	}
	redis := "connected"
	if err := h.redis.Health(ctx); err != nil {
		redis = "unreachable"
		status = http.StatusServiceUnavailable
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":   overall,
		"postgres": postgres,
		"redis":    redis,
	})
}
