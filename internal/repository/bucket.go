package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/VyankateshKedar/sparkAppBackend/internal/model"
)

// HasRecentVisitor reports whether any bucket for the subject, stamped on a
// calendar day overlapping the lookback window, already contains this IP.
// Day stamps are midnights, so the comparison is against the calendar day of
// the window start: an IP seen late yesterday still counts as seen for an
// event shortly after midnight.
func (r *PostgresRepository) HasRecentVisitor(ctx context.Context, userID int64, linkID *int64, kind model.BucketKind, since time.Time, ip string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM analytics_buckets b
			JOIN bucket_visitors v ON v.bucket_id = b.id
			WHERE b.user_id = $1
			  AND b.kind = $2
			  AND (($3::bigint IS NULL AND b.link_id IS NULL) OR b.link_id = $3)
			  AND b.day >= $4::date
			  AND v.ip = $5
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, userID, kind, linkID, since, ip).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check recent visitor: %w", err)
	}
	return exists, nil
}

// UpsertDailyBucket increments today's counters, creating the bucket when it
// does not exist yet, and appends the visitor when one is given. The counter
// update is a single insert-or-update statement, so concurrent events for the
// same subject and day can never race into duplicate buckets.
func (r *PostgresRepository) UpsertDailyBucket(ctx context.Context, userID int64, linkID *int64, kind model.BucketKind, day time.Time, visitor *model.Visitor) error {
	var views, clicks int64
	if kind == model.KindProfileView {
		views = 1
	} else {
		clicks = 1
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin bucket tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO analytics_buckets (user_id, link_id, kind, day, total_views, total_clicks)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, kind, day, COALESCE(link_id, 0))
		DO UPDATE SET
			total_views  = analytics_buckets.total_views + EXCLUDED.total_views,
			total_clicks = analytics_buckets.total_clicks + EXCLUDED.total_clicks
		RETURNING id
	`

	var bucketID int64
	if err := tx.QueryRow(ctx, query, userID, linkID, kind, day, views, clicks).Scan(&bucketID); err != nil {
		return fmt.Errorf("failed to upsert bucket: %w", err)
	}

	if visitor != nil {
		_, err := tx.Exec(ctx, `
			INSERT INTO bucket_visitors (bucket_id, ip, user_agent, device, country, city, referrer, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, bucketID, visitor.IP, visitor.UserAgent, visitor.Device,
			visitor.Country, visitor.City, visitor.Referrer, visitor.Timestamp)
		if err != nil {
			return fmt.Errorf("failed to append visitor: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// LoadUserBuckets returns every bucket for the user stamped inside the range,
// visitors attached in insertion order.
func (r *PostgresRepository) LoadUserBuckets(ctx context.Context, userID int64, from, to time.Time) ([]model.Bucket, error) {
	query := `
		SELECT id, user_id, link_id, kind, day, total_views, total_clicks
		FROM analytics_buckets
		WHERE user_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day ASC, id ASC
	`
	return r.loadBuckets(ctx, query, userID, from, to)
}

// LoadLinkBuckets returns the click buckets for a single link inside the range.
func (r *PostgresRepository) LoadLinkBuckets(ctx context.Context, userID, linkID int64, from, to time.Time) ([]model.Bucket, error) {
	query := `
		SELECT id, user_id, link_id, kind, day, total_views, total_clicks
		FROM analytics_buckets
		WHERE user_id = $1 AND link_id = $4 AND day >= $2 AND day <= $3
		ORDER BY day ASC, id ASC
	`
	return r.loadBuckets(ctx, query, userID, from, to, linkID)
}

func (r *PostgresRepository) loadBuckets(ctx context.Context, query string, args ...any) ([]model.Bucket, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load buckets: %w", err)
	}
	defer rows.Close()

	buckets := []model.Bucket{}
	byID := map[int64]int{}
	ids := []int64{}
	for rows.Next() {
		var b model.Bucket
		if err := rows.Scan(&b.ID, &b.UserID, &b.LinkID, &b.Kind, &b.Day, &b.TotalViews, &b.TotalClicks); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		byID[b.ID] = len(buckets)
		ids = append(ids, b.ID)
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read buckets: %w", err)
	}

	if len(ids) == 0 {
		return buckets, nil
	}

	visitorRows, err := r.pool.Query(ctx, `
		SELECT bucket_id, ip, user_agent, device, country, city, referrer, occurred_at
		FROM bucket_visitors
		WHERE bucket_id = ANY($1)
		ORDER BY id ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load bucket visitors: %w", err)
	}
	defer visitorRows.Close()

	for visitorRows.Next() {
		var bucketID int64
		var v model.Visitor
		if err := visitorRows.Scan(&bucketID, &v.IP, &v.UserAgent, &v.Device, &v.Country, &v.City, &v.Referrer, &v.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan visitor: %w", err)
		}
		if idx, ok := byID[bucketID]; ok {
			buckets[idx].Visitors = append(buckets[idx].Visitors, v)
		}
	}
	if err := visitorRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read visitors: %w", err)
	}

	return buckets, nil
}

// DeleteBucketsBefore drops buckets whose day is older than the cutoff and
// returns how many were removed. Used by the retention scheduler.
func (r *PostgresRepository) DeleteBucketsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin retention tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM bucket_visitors
		WHERE bucket_id IN (SELECT id FROM analytics_buckets WHERE day < $1)
	`, cutoff); err != nil {
		return 0, fmt.Errorf("failed to prune visitors: %w", err)
	}

	result, err := tx.Exec(ctx, `DELETE FROM analytics_buckets WHERE day < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune buckets: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit retention tx: %w", err)
	}

	return result.RowsAffected(), nil
}
