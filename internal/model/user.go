package model

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an account that owns a public profile page.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Category     string    `json:"category,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	ProfileImage string    `json:"profile_image,omitempty"`
	BannerImage  string    `json:"banner_image,omitempty"`
	Theme        Theme     `json:"theme"`
	SocialIcons  []SocialIcon `json:"social_icons"`
	ShopLinks    []ShopLink   `json:"shop_links"`
	CreatedAt    time.Time `json:"created_at"`
}

// Theme holds profile page customization.
type Theme struct {
	Background   string       `json:"background"`
	ButtonDesign ButtonDesign `json:"button_design"`
	Layout       string       `json:"layout"`
}

type ButtonDesign struct {
	Shape string `json:"shape"`
	Color string `json:"color"`
	Style string `json:"style"`
}

type SocialIcon struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type ShopLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`
}

// DefaultTheme returns the customization applied to new accounts.
func DefaultTheme() Theme {
	return Theme{
		Background: "default",
		ButtonDesign: ButtonDesign{
			Shape: "rounded",
			Color: "#000000",
			Style: "filled",
		},
		Layout: "standard",
	}
}

// NewUser builds a user with the password already hashed. A User never
// carries a plaintext password; hashing happens here, not in a save hook.
func NewUser(username, email, password string) (*User, error) {
	if len(password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Theme:        DefaultTheme(),
	}, nil
}

// CheckPassword verifies a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the stored hash with one for the new password.
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// PublicProfile is the redacted view served on the public profile page.
type PublicProfile struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Category     string       `json:"category,omitempty"`
	Bio          string       `json:"bio,omitempty"`
	ProfileImage string       `json:"profile_image,omitempty"`
	BannerImage  string       `json:"banner_image,omitempty"`
	Theme        Theme        `json:"theme"`
	SocialIcons  []SocialIcon `json:"social_icons"`
	ShopLinks    []ShopLink   `json:"shop_links"`
}

// Public strips credentials and contact details for unauthenticated callers.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		Category:     u.Category,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		BannerImage:  u.BannerImage,
		Theme:        u.Theme,
		SocialIcons:  u.SocialIcons,
		ShopLinks:    u.ShopLinks,
	}
}

// RegisterRequest is the request body for account registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest is the request body for credential login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the bearer token issued after register/login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest carries partial profile customization updates.
type UpdateProfileRequest struct {
	Username     *string       `json:"username,omitempty"`
	Category     *string       `json:"category,omitempty"`
	Bio          *string       `json:"bio,omitempty"`
	ProfileImage *string       `json:"profile_image,omitempty"`
	BannerImage  *string       `json:"banner_image,omitempty"`
	Theme        *Theme        `json:"theme,omitempty"`
	SocialIcons  []SocialIcon  `json:"social_icons,omitempty"`
	ShopLinks    []ShopLink    `json:"shop_links,omitempty"`
}

// UpdateSettingsRequest carries email/password changes.
type UpdateSettingsRequest struct {
	Email           string `json:"email,omitempty"`
	CurrentPassword string `json:"current_password,omitempty"`
	NewPassword     string `json:"new_password,omitempty"`
}

// ForgotPasswordRequest starts a password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes a password reset flow.
type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}
