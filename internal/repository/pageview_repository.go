package repository

import (
	"context"
	"fmt"

	"studio-api/internal/domain"
	"studio-api/pkg/database"
)

// pageViewRepository stores page-view events in PostgreSQL
type pageViewRepository struct {
	db *database.PostgresDB
}

// NewPageViewRepository creates a new page-view repository
func NewPageViewRepository(db *database.PostgresDB) PageViewRepository {
	return &pageViewRepository{
		db: db,
	}
}

// Insert appends one page-view event
func (r *pageViewRepository) Insert(ctx context.Context, view *domain.PageView) error {
	query := `
		INSERT INTO page_views (page, ip, user_agent, country, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.Pool.QueryRow(ctx, query,
		view.Page,
		view.IP,
		view.UserAgent,
		view.Country,
		view.CreatedAt,
	).Scan(&view.ID)

	if err != nil {
		return fmt.Errorf("failed to insert page view: %w", err)
	}

	return nil
}

// CountAll returns the all-time event count
func (r *pageViewRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM page_views`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count page views: %w", err)
	}

	return count, nil
}

// CountInWindow returns the event count with created_at in [Start, End)
func (r *pageViewRepository) CountInWindow(ctx context.Context, window TimeWindowFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM page_views WHERE created_at >= $1 AND created_at < $2`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, window.Start, window.End).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count page views in window: %w", err)
	}

	return count, nil
}

// CountDistinctIPs returns the number of distinct, non-null IPs in the window
func (r *pageViewRepository) CountDistinctIPs(ctx context.Context, window TimeWindowFilter) (int64, error) {
	query := `
		SELECT COUNT(DISTINCT ip)
		FROM page_views
		WHERE ip IS NOT NULL AND created_at >= $1 AND created_at < $2
	`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, window.Start, window.End).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count distinct visitor IPs: %w", err)
	}

	return count, nil
}

// TopPages groups events by page path, ordered by count descending. No
// secondary sort key: ties come back in store order.
func (r *pageViewRepository) TopPages(ctx context.Context, q GroupByCountQuery) ([]domain.PageCount, error) {
	query := `
		SELECT page, COUNT(*) AS views
		FROM page_views
		GROUP BY page
		ORDER BY views DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top pages: %w", err)
	}
	defer rows.Close()

	var results []domain.PageCount
	for rows.Next() {
		var pc domain.PageCount
		if err := rows.Scan(&pc.Page, &pc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan top page row: %w", err)
		}
		results = append(results, pc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading top page rows: %w", err)
	}

	return results, nil
}

// DailyCounts buckets events by calendar day within the window, ascending
func (r *pageViewRepository) DailyCounts(ctx context.Context, window TimeWindowFilter) ([]domain.DailyCount, error) {
	query := `
		SELECT date_trunc('day', created_at) AS day, COUNT(*)
		FROM page_views
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY day
		ORDER BY day ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily page view counts: %w", err)
	}
	defer rows.Close()

	var results []domain.DailyCount
	for rows.Next() {
		var dc domain.DailyCount
		if err := rows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan daily count row: %w", err)
		}
		results = append(results, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading daily count rows: %w", err)
	}

	return results, nil
}
