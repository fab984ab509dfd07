package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"studio-api/internal/domain"
	"studio-api/internal/repository"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/google/uuid"
)

// newsletterService handles newsletter subscriptions
type newsletterService struct {
	repo   repository.NewsletterRepository
	logger *logger.Logger
}

// NewNewsletterService creates a new newsletter service
func NewNewsletterService(repo repository.NewsletterRepository, logger *logger.Logger) NewsletterService {
	return &newsletterService{
		repo:   repo,
		logger: logger,
	}
}

// Subscribe adds an email to the list. An email that is already subscribed is
// rejected with a distinct conflict error; the existing row is never touched.
func (s *newsletterService) Subscribe(ctx context.Context, req *domain.SubscribeRequest) (*domain.Subscriber, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, errors.NewValidationError("a valid email address is required", nil)
	}

	sub := &domain.Subscriber{
		ID:        uuid.New(),
		Email:     email,
		Confirmed: false,
		Source:    optional(strings.TrimSpace(req.Source)),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, errors.NewConflictError("already subscribed")
		}
		s.logger.WithError(err).Error("Failed to create subscriber")
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"subscriber_id": sub.ID.String(),
		"source":        req.Source,
	}).Info("Newsletter subscription created")

	return sub, nil
}

// Confirm marks an email as confirmed
func (s *newsletterService) Confirm(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.repo.Confirm(ctx, email); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("subscriber not found")
		}
		return fmt.Errorf("failed to confirm subscriber: %w", err)
	}

	s.logger.Info("Newsletter subscription confirmed")
	return nil
}

// Unsubscribe removes an email from the list
func (s *newsletterService) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("subscriber not found")
		}
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}

	s.logger.Info("Newsletter subscription removed")
	return nil
}

// List returns all subscribers
func (s *newsletterService) List(ctx context.Context) ([]*domain.Subscriber, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}
