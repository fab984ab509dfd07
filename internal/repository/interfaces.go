package repository

import (
	"context"
	"time"

	"studio-api/internal/domain"

	"github.com/google/uuid"
)

// TimeWindowFilter scopes a query to rows with created_at in [Start, End).
// Both bounds derive from the single instant captured at the start of an
// aggregation call, so sub-queries in the same call never disagree on "now".
type TimeWindowFilter struct {
	Start time.Time
	End   time.Time
}

// GroupByCountQuery describes a grouped count ordered by count descending.
// Ordering among equal counts is whatever the store returns.
type GroupByCountQuery struct {
	Limit int
}

// PageViewRepository reads and appends page-view events
type PageViewRepository interface {
	// Insert appends one page-view event
	Insert(ctx context.Context, view *domain.PageView) error

	// CountAll returns the all-time event count
	CountAll(ctx context.Context) (int64, error)

	// CountInWindow returns the event count within the window
	CountInWindow(ctx context.Context, window TimeWindowFilter) (int64, error)

	// CountDistinctIPs returns the number of distinct IPs within the window
	CountDistinctIPs(ctx context.Context, window TimeWindowFilter) (int64, error)

	// TopPages groups events by page path and returns the highest counts
	TopPages(ctx context.Context, q GroupByCountQuery) ([]domain.PageCount, error)

	// DailyCounts buckets events by calendar day within the window, ascending
	DailyCounts(ctx context.Context, window TimeWindowFilter) ([]domain.DailyCount, error)
}

// ContentRepository handles project and blog post persistence
type ContentRepository interface {
	// IncrementProjectViews atomically bumps a project view counter by one
	IncrementProjectViews(ctx context.Context, id int64) error

	// IncrementPostViews atomically bumps a blog post view counter by one
	IncrementPostViews(ctx context.Context, id int64) error

	// SumProjectViews returns the all-time sum of project view counters
	SumProjectViews(ctx context.Context) (int64, error)

	// SumPostViews returns the all-time sum of blog post view counters
	SumPostViews(ctx context.Context) (int64, error)

	// TopProjectsByViews returns projects ranked by view counter descending
	TopProjectsByViews(ctx context.Context, q GroupByCountQuery) ([]domain.ProjectViews, error)

	ListProjects(ctx context.Context, publishedOnly bool) ([]*domain.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error)
	CreateProject(ctx context.Context, p *domain.Project) error
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id int64) error

	ListPosts(ctx context.Context, publishedOnly bool) ([]*domain.BlogPost, error)
	GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	CreatePost(ctx context.Context, p *domain.BlogPost) error
	UpdatePost(ctx context.Context, p *domain.BlogPost) error
	DeletePost(ctx context.Context, id int64) error
}

// ContactRepository handles contact message persistence
type ContactRepository interface {
	// Create persists a new contact message, expiry already stamped
	Create(ctx context.Context, msg *domain.ContactMessage) error

	// ListActive returns messages with expires_at > now, newest first
	ListActive(ctx context.Context, now time.Time) ([]*domain.ContactMessage, error)

	// GetByID returns one message regardless of expiry
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error)

	// Delete removes a message
	Delete(ctx context.Context, id uuid.UUID) error

	// CountInWindow counts messages created within the window
	CountInWindow(ctx context.Context, window TimeWindowFilter) (int64, error)

	// PurgeExpired removes messages with expires_at < now, returning the count
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewsletterRepository handles subscriber persistence
type NewsletterRepository interface {
	// Create persists a new subscriber. A duplicate email returns
	// ErrDuplicateEmail, never an upsert.
	Create(ctx context.Context, sub *domain.Subscriber) error

	// Confirm flips the confirmed flag for an email
	Confirm(ctx context.Context, email string) error

	// DeleteByEmail removes a subscriber
	DeleteByEmail(ctx context.Context, email string) error

	// List returns all subscribers, newest first
	List(ctx context.Context) ([]*domain.Subscriber, error)

	// CountAll returns the all-time subscriber count
	CountAll(ctx context.Context) (int64, error)

	// CountConfirmed returns the confirmed subscriber count
	CountConfirmed(ctx context.Context) (int64, error)

	// CountInWindow counts subscribers created within the window
	CountInWindow(ctx context.Context, window TimeWindowFilter) (int64, error)
}

// AdminRepository reads admin accounts for login
type AdminRepository interface {
	// GetByEmail returns the admin with the given email
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	PageView   PageViewRepository
	Content    ContentRepository
	Contact    ContactRepository
	Newsletter NewsletterRepository
	Admin      AdminRepository
}
