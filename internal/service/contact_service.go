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

// contactService handles contact form submissions and the admin inbox
type contactService struct {
	repo          repository.ContactRepository
	retentionDays int
	logger        *logger.Logger
}

// NewContactService creates a new contact service
func NewContactService(repo repository.ContactRepository, retentionDays int, logger *logger.Logger) ContactService {
	return &contactService{
		repo:          repo,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Submit validates a contact form submission and stores it. The expiry is
// stamped here, at write time, as CreatedAt plus the retention period; the
// cleanup sweep and the active-messages filter both rely on the persisted
// value rather than recomputing it.
func (s *contactService) Submit(ctx context.Context, req *domain.ContactRequest) (*domain.ContactMessage, error) {
	if err := validateContactRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &domain.ContactMessage{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Company:   optional(strings.TrimSpace(req.Company)),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
		Phone:     optional(strings.TrimSpace(req.Phone)),
		Budget:    optional(strings.TrimSpace(req.Budget)),
		Timeline:  optional(strings.TrimSpace(req.Timeline)),
		Services:  req.Services,
		CreatedAt: now,
		ExpiresAt: now.AddDate(0, 0, s.retentionDays),
	}
	if msg.Services == nil {
		msg.Services = []string{}
	}

	if err := s.repo.Create(ctx, msg); err != nil {
		s.logger.WithError(err).Error("Failed to store contact message")
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"message_id": msg.ID.String(),
		"expires_at": msg.ExpiresAt,
	}).Info("Contact message received")

	return msg, nil
}

// ListActive returns messages whose expiry lies in the future. Expired rows
// are logically dead even before the purge removes them.
func (s *contactService) ListActive(ctx context.Context) ([]*domain.ContactMessage, error) {
	messages, err := s.repo.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list active contact messages: %w", err)
	}
	return messages, nil
}

// Get returns one message by id
func (s *contactService) Get(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NewNotFoundError("message not found")
		}
		return nil, fmt.Errorf("failed to get contact message: %w", err)
	}
	return msg, nil
}

// Delete removes a message
func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("message not found")
		}
		return fmt.Errorf("failed to delete contact message: %w", err)
	}

	s.logger.WithField("message_id", id.String()).Info("Contact message deleted")
	return nil
}

func validateContactRequest(req *domain.ContactRequest) error {
	details := map[string]interface{}{}

	if strings.TrimSpace(req.Name) == "" {
		details["name"] = "name is required"
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		details["email"] = "a valid email address is required"
	}
	if strings.TrimSpace(req.Subject) == "" {
		details["subject"] = "subject is required"
	}
	if strings.TrimSpace(req.Message) == "" {
		details["message"] = "message is required"
	}

	if len(details) > 0 {
		return errors.NewValidationError("invalid contact submission", details)
	}

	return nil
}
