package service

import (
	"context"

	"studio-api/internal/domain"

	"github.com/google/uuid"
)

// AnalyticsService defines the dashboard aggregation and tracking operations
type AnalyticsService interface {
	// ComputeDashboardSnapshot produces a consistent metrics snapshot for a
	// trailing window of windowDays days. Pure read, all-or-nothing.
	ComputeDashboardSnapshot(ctx context.Context, windowDays int) (*domain.DashboardSnapshot, error)

	// RecordPageView appends one page-view event, rate limited per IP
	RecordPageView(ctx context.Context, page, ip, userAgent, country string) (*domain.RateLimitInfo, error)
}

// ContactService defines contact message operations
type ContactService interface {
	// Submit validates and stores a contact form submission
	Submit(ctx context.Context, req *domain.ContactRequest) (*domain.ContactMessage, error)

	// ListActive returns messages that have not yet expired
	ListActive(ctx context.Context) ([]*domain.ContactMessage, error)

	// Get returns one message by id
	Get(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error)

	// Delete removes a message
	Delete(ctx context.Context, id uuid.UUID) error
}

// NewsletterService defines newsletter subscription operations
type NewsletterService interface {
	// Subscribe adds an email to the list; duplicates are rejected
	Subscribe(ctx context.Context, req *domain.SubscribeRequest) (*domain.Subscriber, error)

	// Confirm marks an email as confirmed
	Confirm(ctx context.Context, email string) error

	// Unsubscribe removes an email from the list
	Unsubscribe(ctx context.Context, email string) error

	// List returns all subscribers
	List(ctx context.Context) ([]*domain.Subscriber, error)
}

// ContentService defines project and blog post operations
type ContentService interface {
	ListProjects(ctx context.Context, includeUnpublished bool) ([]*domain.Project, error)

	// GetProject returns a published project and bumps its view counter
	GetProject(ctx context.Context, slug string) (*domain.Project, error)

	CreateProject(ctx context.Context, p *domain.Project) error
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id int64) error

	ListPosts(ctx context.Context, includeUnpublished bool) ([]*domain.BlogPost, error)

	// GetPost returns a published blog post and bumps its view counter
	GetPost(ctx context.Context, slug string) (*domain.BlogPost, error)

	CreatePost(ctx context.Context, p *domain.BlogPost) error
	UpdatePost(ctx context.Context, p *domain.BlogPost) error
	DeletePost(ctx context.Context, id int64) error
}

// RetentionService runs the scheduled contact-message purge
type RetentionService interface {
	// Start begins the cron schedule
	Start() error

	// Stop halts the schedule and waits for a running sweep
	Stop(ctx context.Context) error

	// PurgeNow runs one sweep immediately, returning the rows removed
	PurgeNow(ctx context.Context) (int64, error)
}

// AuthService defines admin authentication operations
type AuthService interface {
	// Login checks credentials and returns a signed token
	Login(ctx context.Context, email, password string) (string, error)

	// ValidateToken parses and verifies a token
	ValidateToken(token string) (*domain.AuthClaims, error)
}

// Services aggregates all service interfaces
type Services struct {
	Analytics  AnalyticsService
	Contact    ContactService
	Newsletter NewsletterService
	Content    ContentService
	Retention  RetentionService
	Auth       AuthService
}
