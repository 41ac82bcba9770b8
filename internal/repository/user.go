package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
)

const userColumns = `id, username, email, password_hash, category, bio,
	profile_image, banner_image, theme, social_icons, shop_links, created_at`

// CreateUser inserts a new user and fills in the generated ID
func (r *PostgresRepository) CreateUser(ctx context.Context, user *model.User) error {
	theme, socialIcons, shopLinks, err := marshalCustomization(user)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (username, email, password_hash, category, bio, profile_image, banner_image, theme, social_icons, shop_links)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err = r.pool.QueryRow(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Category, user.Bio,
		user.ProfileImage, user.BannerImage, theme, socialIcons, shopLinks,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by its primary key
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves a user by email. Returns nil without error when
// no account exists, so callers can branch on existence.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := r.scanUser(r.pool.QueryRow(ctx, query, email))
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// GetUserByUsername retrieves a user by username. Returns nil without error
// when no account exists.
func (r *PostgresRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := r.scanUser(r.pool.QueryRow(ctx, query, username))
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	return user, err
}

// UpdateUserProfile persists profile customization fields
func (r *PostgresRepository) UpdateUserProfile(ctx context.Context, user *model.User) error {
	theme, socialIcons, shopLinks, err := marshalCustomization(user)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET username = $1, category = $2, bio = $3, profile_image = $4,
		    banner_image = $5, theme = $6, social_icons = $7, shop_links = $8
		WHERE id = $9
	`

	result, err := r.pool.Exec(ctx, query,
		user.Username, user.Category, user.Bio, user.ProfileImage,
		user.BannerImage, theme, socialIcons, shopLinks, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateUserCredentials persists email and password hash changes
func (r *PostgresRepository) UpdateUserCredentials(ctx context.Context, id int64, email, passwordHash string) error {
	query := `UPDATE users SET email = $1, password_hash = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, email, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update user credentials: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetResetToken stores a hashed password reset token with its expiry
func (r *PostgresRepository) SetResetToken(ctx context.Context, userID int64, tokenHash string, expiresAt time.Time) error {
	query := `UPDATE users SET reset_token_hash = $1, reset_token_expires = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, tokenHash, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetUserByResetToken retrieves the user holding an unexpired reset token
func (r *PostgresRepository) GetUserByResetToken(ctx context.Context, tokenHash string, now time.Time) (*model.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1 AND reset_token_expires > $2`
	return r.scanUser(r.pool.QueryRow(ctx, query, tokenHash, now))
}

// ResetPassword replaces the password hash and clears the reset token in one statement
func (r *PostgresRepository) ResetPassword(ctx context.Context, userID int64, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, reset_token_hash = NULL, reset_token_expires = NULL
		WHERE id = $2
	`

	result, err := r.pool.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes the account with its links and analytics in one
// transaction; a partial cascade must never survive
func (r *PostgresRepository) DeleteUser(ctx context.Context, userID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete user tx: %w", err)
	}
	defer tx.Rollback(ctx)

	statements := []string{
		`DELETE FROM bucket_visitors WHERE bucket_id IN (SELECT id FROM analytics_buckets WHERE user_id = $1)`,
		`DELETE FROM analytics_buckets WHERE user_id = $1`,
		`DELETE FROM links WHERE user_id = $1`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt, userID); err != nil {
			return fmt.Errorf("failed to cascade delete user data: %w", err)
		}
	}

	result, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var theme, socialIcons, shopLinks []byte

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Category,
		&user.Bio,
		&user.ProfileImage,
		&user.BannerImage,
		&theme,
		&socialIcons,
		&shopLinks,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if len(theme) > 0 {
		if err := json.Unmarshal(theme, &user.Theme); err != nil {
			return nil, fmt.Errorf("failed to unmarshal theme: %w", err)
		}
	}
	if len(socialIcons) > 0 {
		if err := json.Unmarshal(socialIcons, &user.SocialIcons); err != nil {
			return nil, fmt.Errorf("failed to unmarshal social icons: %w", err)
		}
	}
	if len(shopLinks) > 0 {
		if err := json.Unmarshal(shopLinks, &user.ShopLinks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal shop links: %w", err)
		}
	}

	return &user, nil
}

func marshalCustomization(user *model.User) (theme, socialIcons, shopLinks []byte, err error) {
	theme, err = json.Marshal(user.Theme)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal theme: %w", err)
	}
	socialIcons, err = json.Marshal(user.SocialIcons)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal social icons: %w", err)
	}
	shopLinks, err = json.Marshal(user.ShopLinks)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to marshal shop links: %w", err)
	}
	return theme, socialIcons, shopLinks, nil
}
