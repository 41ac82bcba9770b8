package model

import "time"

// Link is one outbound link on a profile page.
type Link struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Position    int       `json:"position"`
	IsActive    bool      `json:"is_active"`
	ShortCode   string    `json:"short_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateLinkRequest is the request body for creating a link.
type CreateLinkRequest struct {
	Title       string `json:"title" binding:"required"`
	URL         string `json:"url" binding:"required,url"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Position    *int   `json:"position,omitempty"`
}

// UpdateLinkRequest carries partial link updates.
type UpdateLinkRequest struct {
	Title       *string `json:"title,omitempty"`
	URL         *string `json:"url,omitempty"`
	Description *string `json:"description,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	Position    *int    `json:"position,omitempty"`
}

// LinkOrder is one entry of a reorder batch.
type LinkOrder struct {
	ID       int64 `json:"id" binding:"required"`
	Position int   `json:"position"`
}

// ReorderLinksRequest applies an ordered batch of position updates.
type ReorderLinksRequest struct {
	Links []LinkOrder `json:"links" binding:"required,min=1"`
}
