package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
)

const base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const maxCodeAttempts = 10

// LinkStore is the persistence surface for links.
type LinkStore interface {
	CreateLink(ctx context.Context, link *model.Link) error
	GetLinkByID(ctx context.Context, id int64) (*model.Link, error)
	GetLinkByShortCode(ctx context.Context, code string) (*model.Link, error)
	GetLinkForUser(ctx context.Context, id, userID int64) (*model.Link, error)
	ListLinksByUser(ctx context.Context, userID int64, activeOnly bool) ([]model.Link, error)
	UpdateLink(ctx context.Context, link *model.Link) error
	DeleteLink(ctx context.Context, id, userID int64) error
	ShortCodeExists(ctx context.Context, code string) (bool, error)
	NextLinkPosition(ctx context.Context, userID int64) (int, error)
	ReorderLinks(ctx context.Context, userID int64, orders []model.LinkOrder) error
}

// LinkCache caches links by short code for the redirect hot path.
type LinkCache interface {
	GetLink(ctx context.Context, code string) (*model.Link, error)
	SetLink(ctx context.Context, link *model.Link) error
	DeleteLink(ctx context.Context, code string) error
}

type LinkService struct {
	store      LinkStore
	cache      LinkCache
	codeLength int
}

func NewLinkService(store LinkStore, cache LinkCache, codeLength int) *LinkService {
	if codeLength <= 0 {
		codeLength = 7
	}
	return &LinkService{store: store, cache: cache, codeLength: codeLength}
}

// List returns the user's links ordered by display position
func (s *LinkService) List(ctx context.Context, userID int64) ([]model.Link, error) {
	return s.store.ListLinksByUser(ctx, userID, false)
}

// Create builds and persists a new link. The short code is assigned here,
// before the link is considered valid; a link row never exists without one.
func (s *LinkService) Create(ctx context.Context, userID int64, req *model.CreateLinkRequest) (*model.Link, error) {
	position := 0
	if req.Position != nil {
		position = *req.Position
	} else {
		next, err := s.store.NextLinkPosition(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to assign link position: %w", err)
		}
		position = next
	}

	code, err := s.generateShortCode(ctx)
	if err != nil {
		return nil, err
	}

	link := &model.Link{
		UserID:      userID,
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
		Icon:        req.Icon,
		Position:    position,
		IsActive:    true,
		ShortCode:   code,
	}

	if err := s.store.CreateLink(ctx, link); err != nil {
		return nil, err
	}

	return link, nil
}

// Update applies partial changes to a link owned by the user
func (s *LinkService) Update(ctx context.Context, userID, linkID int64, req *model.UpdateLinkRequest) (*model.Link, error) {
	link, err := s.store.GetLinkForUser(ctx, linkID, userID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		link.Title = *req.Title
	}
	if req.URL != nil {
		link.URL = *req.URL
	}
	if req.Description != nil {
		link.Description = *req.Description
	}
	if req.Icon != nil {
		link.Icon = *req.Icon
	}
	if req.IsActive != nil {
		link.IsActive = *req.IsActive
	}
	if req.Position != nil {
		link.Position = *req.Position
	}

	if err := s.store.UpdateLink(ctx, link); err != nil {
		return nil, err
	}

	s.evict(ctx, link.ShortCode)
	return link, nil
}

// Delete removes a link owned by the user
func (s *LinkService) Delete(ctx context.Context, userID, linkID int64) error {
	link, err := s.store.GetLinkForUser(ctx, linkID, userID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteLink(ctx, linkID, userID); err != nil {
		return err
	}

	s.evict(ctx, link.ShortCode)
	return nil
}

// Reorder applies a batch of position updates all-or-nothing and returns the
// refreshed list
func (s *LinkService) Reorder(ctx context.Context, userID int64, orders []model.LinkOrder) ([]model.Link, error) {
	if err := s.store.ReorderLinks(ctx, userID, orders); err != nil {
		return nil, err
	}
	return s.store.ListLinksByUser(ctx, userID, false)
}

// ResolveByShortCode returns the active link behind a short code, consulting
// the cache first. Inactive and missing links are both NotFound to callers.
func (s *LinkService) ResolveByShortCode(ctx context.Context, code string) (*model.Link, error) {
	if s.cache != nil {
		cached, err := s.cache.GetLink(ctx, code)
		if err != nil {
			log.Printf("link cache get failed: code=%s err=%v", code, err)
		}
		if cached != nil {
			if !cached.IsActive {
				return nil, repository.ErrLinkNotFound
			}
			return cached, nil
		}
	}

	link, err := s.store.GetLinkByShortCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !link.IsActive {
		return nil, repository.ErrLinkNotFound
	}

	if s.cache != nil {
		if err := s.cache.SetLink(ctx, link); err != nil {
			log.Printf("link cache set failed: code=%s err=%v", code, err)
		}
	}

	return link, nil
}

// ResolveByID returns the active link behind an id for the redirect-by-id route
func (s *LinkService) ResolveByID(ctx context.Context, id int64) (*model.Link, error) {
	link, err := s.store.GetLinkByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !link.IsActive {
		return nil, repository.ErrLinkNotFound
	}
	return link, nil
}

func (s *LinkService) evict(ctx context.Context, code string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteLink(ctx, code); err != nil {
		log.Printf("link cache evict failed: code=%s err=%v", code, err)
	}
}

// generateShortCode retries random codes until one is free. Collisions are
// vanishingly rare at 62^7 but the retry keeps the invariant explicit.
func (s *LinkService) generateShortCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := randomCode(s.codeLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate short code: %w", err)
		}

		exists, err := s.store.ShortCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check short code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to find free short code after %d attempts", maxCodeAttempts)
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = base62Chars[int(b)%len(base62Chars)]
	}
	return string(buf), nil
}
