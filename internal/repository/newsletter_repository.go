package repository

import (
	"context"
	"errors"
	"fmt"

	"studio-api/internal/domain"
	"studio-api/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicateEmail is returned when subscribing an email that already exists
var ErrDuplicateEmail = errors.New("email already subscribed")

// newsletterRepository stores subscribers in PostgreSQL
type newsletterRepository struct {
	db *database.PostgresDB
}

// NewNewsletterRepository creates a new newsletter repository
func NewNewsletterRepository(db *database.PostgresDB) NewsletterRepository {
	return &newsletterRepository{
		db: db,
	}
}

// Create persists a new subscriber. The unique index on email turns a
// duplicate subscribe into ErrDuplicateEmail instead of an upsert.
func (r *newsletterRepository) Create(ctx context.Context, sub *domain.Subscriber) error {
	query := `
		INSERT INTO subscribers (id, email, confirmed, source, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		sub.ID,
		sub.Email,
		sub.Confirmed,
		sub.Source,
		sub.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	return nil
}

// Confirm flips the confirmed flag for an email
func (r *newsletterRepository) Confirm(ctx context.Context, email string) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE subscribers SET confirmed = true WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByEmail removes a subscriber
func (r *newsletterRepository) DeleteByEmail(ctx context.Context, email string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("failed to delete subscriber: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns all subscribers, newest first
func (r *newsletterRepository) List(ctx context.Context) ([]*domain.Subscriber, error) {
	query := `
		SELECT id, email, confirmed, source, created_at
		FROM subscribers
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	var subs []*domain.Subscriber
	for rows.Next() {
		s := &domain.Subscriber{}
		if err := rows.Scan(&s.ID, &s.Email, &s.Confirmed, &s.Source, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber row: %w", err)
		}
		subs = append(subs, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading subscriber rows: %w", err)
	}

	return subs, nil
}

// CountAll returns the all-time subscriber count
func (r *newsletterRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

// CountConfirmed returns the confirmed subscriber count
func (r *newsletterRepository) CountConfirmed(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers WHERE confirmed = true`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count confirmed subscribers: %w", err)
	}
	return count, nil
}

// CountInWindow counts subscribers created within [Start, End)
func (r *newsletterRepository) CountInWindow(ctx context.Context, window TimeWindowFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM subscribers WHERE created_at >= $1 AND created_at < $2`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, window.Start, window.End).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers in window: %w", err)
	}

	return count, nil
}

// adminRepository reads admin accounts for login
type adminRepository struct {
	db *database.PostgresDB
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *database.PostgresDB) AdminRepository {
	return &adminRepository{db: db}
}

// GetByEmail returns the admin with the given email
func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := `SELECT id, email, password_hash, created_at FROM admin_users WHERE email = $1`

	a := &domain.AdminUser{}
	err := r.db.Pool.QueryRow(ctx, query, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get admin by email: %w", err)
	}

	return a, nil
}
