package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/VyankateshKedar/sparkAppBackend/internal/mailer"
	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
	"github.com/VyankateshKedar/sparkAppBackend/internal/repository"
)

var (
	ErrEmailTaken         = errors.New("email is already in use")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("password reset token is invalid or has expired")
	ErrWrongPassword      = errors.New("current password is incorrect")
)

// UserStore is the persistence surface for accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, user *model.User) error
	UpdateUserCredentials(ctx context.Context, id int64, email, passwordHash string) error
	SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error
	GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error)
	ResetPassword(ctx context.Context, userID int64, passwordHash string) error
	DeleteUser(ctx context.Context, userID int64) error
}

type UserService struct {
	store         UserStore
	links         LinkStore
	mail          mailer.Mailer
	frontendURL   string
	resetTokenTTL time.Duration
	now           func() time.Time
}

func NewUserService(store UserStore, links LinkStore, mail mailer.Mailer, frontendURL string, resetTokenTTL time.Duration) *UserService {
	if resetTokenTTL <= 0 {
		resetTokenTTL = time.Hour
	}
	return &UserService{
		store:         store,
		links:         links,
		mail:          mail,
		frontendURL:   frontendURL,
		resetTokenTTL: resetTokenTTL,
		now:           time.Now,
	}
}

// Register creates a new account with a hashed password
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	existing, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	existing, err = s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	user, err := model.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login verifies credentials. The same error covers an unknown email and a
// wrong password, so the response shape never reveals which one failed.
func (s *UserService) Login(ctx context.Context, req *model.LoginRequest) (*model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Me returns the account behind an authenticated user id
func (s *UserService) Me(ctx context.Context, userID int64) (*model.User, error) {
	return s.store.GetUserByID(ctx, userID)
}

// PublicProfile returns the public view of a profile page with its active
// links ordered for display
func (s *UserService) PublicProfile(ctx context.Context, username string) (*model.User, []model.Link, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, repository.ErrUserNotFound
	}

	links, err := s.links.ListLinksByUser(ctx, user.ID, true)
	if err != nil {
		return nil, nil, err
	}

	return user, links, nil
}

// UpdateProfile applies partial profile customization changes
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.store.GetUserByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != userID {
			return nil, ErrUsernameTaken
		}
		user.Username = *req.Username
	}
	if req.Category != nil {
		user.Category = *req.Category
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.ProfileImage != nil {
		user.ProfileImage = *req.ProfileImage
	}
	if req.BannerImage != nil {
		user.BannerImage = *req.BannerImage
	}
	if req.Theme != nil {
		user.Theme = *req.Theme
	}
	if req.SocialIcons != nil {
		user.SocialIcons = req.SocialIcons
	}
	if req.ShopLinks != nil {
		user.ShopLinks = req.ShopLinks
	}

	if err := s.store.UpdateUserProfile(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UpdateSettings changes email and/or password. A password change requires
// the current password to verify.
func (s *UserService) UpdateSettings(ctx context.Context, userID int64, req *model.UpdateSettingsRequest) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		existing, err := s.store.GetUserByEmail(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailTaken
		}
		user.Email = req.Email
	}

	if req.CurrentPassword != "" && req.NewPassword != "" {
		if !user.CheckPassword(req.CurrentPassword) {
			return nil, ErrWrongPassword
		}
		if err := user.SetPassword(req.NewPassword); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateUserCredentials(ctx, userID, user.Email, user.PasswordHash); err != nil {
		return nil, err
	}

	return user, nil
}

// ForgotPassword starts a reset flow. It succeeds whether or not the email
// belongs to an account, so the caller cannot probe for registered addresses.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(raw)

	expiresAt := s.now().Add(s.resetTokenTTL)
	if err := s.store.SetResetToken(ctx, user.ID, hashToken(token), expiresAt); err != nil {
		return err
	}

	resetURL := s.frontendURL + "/reset-password/" + token
	if err := s.mail.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		log.Printf("password reset email failed: user=%d err=%v", user.ID, err)
		return err
	}

	return nil
}

// ResetPassword completes a reset flow with the emailed token
func (s *UserService) ResetPassword(ctx context.Context, req *model.ResetPasswordRequest) error {
	user, err := s.store.GetUserByResetToken(ctx, hashToken(req.Token), s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	if err := user.SetPassword(req.Password); err != nil {
		return err
	}

	return s.store.ResetPassword(ctx, user.ID, user.PasswordHash)
}

// DeleteAccount removes the account with its links and analytics
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	return s.store.DeleteUser(ctx, userID)
}

// The raw reset token travels only in the email; storage holds its SHA-256.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
