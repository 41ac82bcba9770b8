package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VyankateshKedar/sparkAppBackend/internal/middleware"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
	"github.com/VyankateshKedar/sparkAppBackend/internal/service"
)

// UserAnalytics answers GET /api/analytics. Unrecognized period values are
// not an error; the range resolver falls back to the last month.
func (h *Handler) UserAnalytics(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	rng := service.ResolveDateRange(
		c.Query("period"),
		c.Query("startDate"),
		c.Query("endDate"),
		time.Now(),
	)

	report, err := h.analytics.UserReport(c.Request.Context(), userID, rng)
	if err != nil {
		log.Printf("user analytics failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to load analytics")
		return
	}

	c.JSON(http.StatusOK, report)
}

// LinkAnalytics answers GET /api/analytics/link/:linkId. A link that is
// absent or owned by someone else is a plain 404.
func (h *Handler) LinkAnalytics(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	linkID, ok := parseID(c.Param("linkId"))
	if !ok {
		respondNotFound(c, "Link not found")
		return
	}

	rng := service.ResolveDateRange(
		c.Query("period"),
		c.Query("startDate"),
		c.Query("endDate"),
		time.Now(),
	)

	report, err := h.analytics.LinkReport(c.Request.Context(), userID, linkID, rng)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			respondNotFound(c, "Link not found")
			return
		}
		log.Printf("link analytics failed: user=%d link=%d err=%v", userID, linkID, err)
		respondInternalError(c, "Failed to load analytics")
		return
	}

	c.JSON(http.StatusOK, report)
}
