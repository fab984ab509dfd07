package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studio-api/internal/repository"
	"studio-api/pkg/logger"

	"github.com/robfig/cron/v3"
)

// purgeTimeout bounds one cleanup sweep
const purgeTimeout = 2 * time.Minute

// retentionService runs the scheduled sweep that physically removes contact
// messages past their expiry. Expired rows are already invisible to the
// admin inbox; this job just reclaims them.
type retentionService struct {
	repo     repository.ContactRepository
	logger   *logger.Logger
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	running  bool
}

// NewRetentionService creates a new retention service
func NewRetentionService(repo repository.ContactRepository, schedule string, logger *logger.Logger) RetentionService {
	return &retentionService{
		repo:     repo,
		logger:   logger,
		schedule: schedule,
	}
}

// Start begins the cron schedule
func (s *retentionService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.cron = cron.New(cron.WithLocation(time.UTC))
	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.WithField("schedule", s.schedule).Info("Retention sweep scheduled")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *retentionService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
		s.logger.Info("Retention service stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for retention sweep: %w", ctx.Err())
	}
}

// PurgeNow runs one sweep immediately
func (s *retentionService) PurgeNow(ctx context.Context) (int64, error) {
	removed, err := s.repo.PurgeExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("retention sweep failed: %w", err)
	}
	return removed, nil
}

func (s *retentionService) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
	defer cancel()

	removed, err := s.PurgeNow(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled retention sweep failed")
		return
	}

	s.logger.WithField("removed", removed).Info("Retention sweep completed")
}
