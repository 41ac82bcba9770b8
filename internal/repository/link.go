package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
)

const linkColumns = `id, user_id, title, url, description, icon, position,
	is_active, short_code, created_at, updated_at`

// CreateLink inserts a new link and fills in the generated ID
func (r *PostgresRepository) CreateLink(ctx context.Context, link *model.Link) error {
	query := `
		INSERT INTO links (user_id, title, url, description, icon, position, is_active, short_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		link.UserID, link.Title, link.URL, link.Description, link.Icon,
		link.Position, link.IsActive, link.ShortCode,
	).Scan(&link.ID, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

// GetLinkByID retrieves a link by its primary key
func (r *PostgresRepository) GetLinkByID(ctx context.Context, id int64) (*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1`
	return r.scanLink(r.pool.QueryRow(ctx, query, id))
}

// GetLinkByShortCode retrieves a link by its globally unique short code
func (r *PostgresRepository) GetLinkByShortCode(ctx context.Context, code string) (*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_code = $1`
	return r.scanLink(r.pool.QueryRow(ctx, query, code))
}

// GetLinkForUser retrieves a link only when it belongs to the given user
func (r *PostgresRepository) GetLinkForUser(ctx context.Context, id, userID int64) (*model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE id = $1 AND user_id = $2`
	return r.scanLink(r.pool.QueryRow(ctx, query, id, userID))
}

// ListLinksByUser returns a user's links ordered by display position
func (r *PostgresRepository) ListLinksByUser(ctx context.Context, userID int64, activeOnly bool) ([]model.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE user_id = $1`
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY position ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	links := []model.Link{}
	for rows.Next() {
		var link model.Link
		if err := rows.Scan(
			&link.ID, &link.UserID, &link.Title, &link.URL, &link.Description,
			&link.Icon, &link.Position, &link.IsActive, &link.ShortCode,
			&link.CreatedAt, &link.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read links: %w", err)
	}

	return links, nil
}

// UpdateLink persists link changes
func (r *PostgresRepository) UpdateLink(ctx context.Context, link *model.Link) error {
	query := `
		UPDATE links
		SET title = $1, url = $2, description = $3, icon = $4, position = $5,
		    is_active = $6, updated_at = now()
		WHERE id = $7 AND user_id = $8
	`

	result, err := r.pool.Exec(ctx, query,
		link.Title, link.URL, link.Description, link.Icon, link.Position,
		link.IsActive, link.ID, link.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// DeleteLink removes a link scoped to its owner
func (r *PostgresRepository) DeleteLink(ctx context.Context, id, userID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrLinkNotFound
	}

	return nil
}

// ShortCodeExists reports whether a short code is already taken
func (r *PostgresRepository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM links WHERE short_code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check short code: %w", err)
	}
	return exists, nil
}

// NextLinkPosition returns the display position after the user's last link
func (r *PostgresRepository) NextLinkPosition(ctx context.Context, userID int64) (int, error) {
	var next int
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(position) + 1, 0) FROM links WHERE user_id = $1`, userID,
	).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next link position: %w", err)
	}
	return next, nil
}

// LinkBelongsToUser reports whether a link exists and is owned by the user
func (r *PostgresRepository) LinkBelongsToUser(ctx context.Context, id, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM links WHERE id = $1 AND user_id = $2)`, id, userID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check link ownership: %w", err)
	}
	return exists, nil
}

// ReorderLinks applies an ordered batch of position updates atomically.
// Either every row moves or none does.
func (r *PostgresRepository) ReorderLinks(ctx context.Context, userID int64, orders []model.LinkOrder) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin reorder tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range orders {
		result, err := tx.Exec(ctx,
			`UPDATE links SET position = $1, updated_at = now() WHERE id = $2 AND user_id = $3`,
			item.Position, item.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to reorder link %d: %w", item.ID, err)
		}
		if result.RowsAffected() == 0 {
			return ErrLinkNotFound
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRepository) scanLink(row pgx.Row) (*model.Link, error) {
	var link model.Link
	err := row.Scan(
		&link.ID, &link.UserID, &link.Title, &link.URL, &link.Description,
		&link.Icon, &link.Position, &link.IsActive, &link.ShortCode,
		&link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}
