package handler

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VyankateshKedar/sparkAppBackend/internal/middleware"
	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
)

func (h *Handler) ListLinks(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	links, err := h.links.List(c.Request.Context(), userID)
	if err != nil {
		log.Printf("list links failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to list links")
		return
	}

	c.JSON(http.StatusOK, links)
}

func (h *Handler) CreateLink(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req model.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if !isHTTPURL(req.URL) {
		respondBadRequest(c, "Only http/https URLs are allowed")
		return
	}

	link, err := h.links.Create(c.Request.Context(), userID, &req)
	if err != nil {
		log.Printf("create link failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to create link")
		return
	}

	c.JSON(http.StatusCreated, link)
}

func (h *Handler) UpdateLink(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	linkID, ok := parseID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "Invalid link id")
		return
	}

	var req model.UpdateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.URL != nil && !isHTTPURL(*req.URL) {
		respondBadRequest(c, "Only http/https URLs are allowed")
		return
	}

	link, err := h.links.Update(c.Request.Context(), userID, linkID, &req)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			respondNotFound(c, "Link not found")
			return
		}
		log.Printf("update link failed: user=%d link=%d err=%v", userID, linkID, err)
		respondInternalError(c, "Failed to update link")
		return
	}

	c.JSON(http.StatusOK, link)
}

func (h *Handler) DeleteLink(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	linkID, ok := parseID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "Invalid link id")
		return
	}

	if err := h.links.Delete(c.Request.Context(), userID, linkID); err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			respondNotFound(c, "Link not found")
			return
		}
		log.Printf("delete link failed: user=%d link=%d err=%v", userID, linkID, err)
		respondInternalError(c, "Failed to delete link")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Link removed"})
}

func (h *Handler) ReorderLinks(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req model.ReorderLinksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid links array")
		return
	}

	links, err := h.links.Reorder(c.Request.Context(), userID, req.Links)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			respondNotFound(c, "Link not found")
			return
		}
		log.Printf("reorder links failed: user=%d err=%v", userID, err)
		respondInternalError(c, "Failed to reorder links")
		return
	}

	c.JSON(http.StatusOK, links)
}

// RedirectByCode resolves a short code and redirects, recording the click.
// The redirect goes out whether or not tracking succeeds.
func (h *Handler) RedirectByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		respondBadRequest(c, "Short code is required")
		return
	}

	link, err := h.links.ResolveByShortCode(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			respondNotFound(c, "Link not found or inactive")
			return
		}
		log.Printf("redirect failed: code=%s ip=%s err=%v", code, c.ClientIP(), err)
		respondInternalError(c, "Failed to resolve link")
		return
	}

	h.analytics.RecordLinkClick(c.Request.Context(), link.UserID, link.ID, visitFromRequest(c))

	c.Redirect(http.StatusFound, link.URL)
}

// RedirectByID is the by-id variant of the redirect route
func (h *Handler) RedirectByID(c *gin.Context) {
	linkID, ok := parseID(c.Param("id"))
	if !ok {
		respondBadRequest(c, "Invalid link id")
		return
	}

	link, err := h.links.ResolveByID(c.Request.Context(), linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			respondNotFound(c, "Link not found or inactive")
			return
		}
		log.Printf("redirect failed: link=%d ip=%s err=%v", linkID, c.ClientIP(), err)
		respondInternalError(c, "Failed to resolve link")
		return
	}

	h.analytics.RecordLinkClick(c.Request.Context(), link.UserID, link.ID, visitFromRequest(c))

	c.Redirect(http.StatusFound, link.URL)
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return false
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}
