package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-api/internal/domain"
	"studio-api/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// contactRepository stores contact messages in PostgreSQL
type contactRepository struct {
	db *database.PostgresDB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *database.PostgresDB) ContactRepository {
	return &contactRepository{
		db: db,
	}
}

const contactColumns = `id, name, email, company, subject, message, phone, budget, timeline, services, created_at, expires_at`

func scanContact(row pgx.Row) (*domain.ContactMessage, error) {
	m := &domain.ContactMessage{}
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Email,
		&m.Company,
		&m.Subject,
		&m.Message,
		&m.Phone,
		&m.Budget,
		&m.Timeline,
		&m.Services,
		&m.CreatedAt,
		&m.ExpiresAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create persists a new contact message with its pre-stamped expiry
func (r *contactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, company, subject, message, phone, budget, timeline, services, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Company,
		msg.Subject,
		msg.Message,
		msg.Phone,
		msg.Budget,
		msg.Timeline,
		msg.Services,
		msg.CreatedAt,
		msg.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}

	return nil
}

// ListActive returns messages that have not yet expired, newest first
func (r *contactRepository) ListActive(ctx context.Context, now time.Time) ([]*domain.ContactMessage, error) {
	query := `
		SELECT ` + contactColumns + `
		FROM contact_messages
		WHERE expires_at > $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query active contact messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact message row: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading contact message rows: %w", err)
	}

	return messages, nil
}

// GetByID returns one contact message
func (r *contactRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	query := `SELECT ` + contactColumns + ` FROM contact_messages WHERE id = $1`

	m, err := scanContact(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}

	return m, nil
}

// Delete removes a contact message
func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountInWindow counts messages created within [Start, End)
func (r *contactRepository) CountInWindow(ctx context.Context, window TimeWindowFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM contact_messages WHERE created_at >= $1 AND created_at < $2`

	var count int64
	if err := r.db.Pool.QueryRow(ctx, query, window.Start, window.End).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count contact messages in window: %w", err)
	}

	return count, nil
}

// PurgeExpired physically removes expired messages
func (r *contactRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM contact_messages WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired contact messages: %w", err)
	}

	return tag.RowsAffected(), nil
}
