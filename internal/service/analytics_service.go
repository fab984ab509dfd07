package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"studio-api/internal/domain"
	"studio-api/internal/repository"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"
	"studio-api/pkg/redis"

	"golang.org/x/sync/errgroup"
)

// DefaultWindowDays is the window used when the caller does not pick one
const DefaultWindowDays = 30

// Rate limiting constants for the public tracking write
const (
	RateLimitWindow   = 1 * time.Hour
	RateLimitRequests = 60
)

// topPagesLimit bounds the top-pages and top-projects group-bys
const topPagesLimit = 10

// analyticsService composes windowed queries into dashboard snapshots and
// records page-view events
type analyticsService struct {
	pageViews  repository.PageViewRepository
	content    repository.ContentRepository
	contacts   repository.ContactRepository
	newsletter repository.NewsletterRepository

	redisClient *redis.Client // optional; nil disables caching and rate limiting
	logger      *logger.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(
	pageViews repository.PageViewRepository,
	content repository.ContentRepository,
	contacts repository.ContactRepository,
	newsletter repository.NewsletterRepository,
	redisClient *redis.Client,
	logger *logger.Logger,
) AnalyticsService {
	return &analyticsService{
		pageViews:   pageViews,
		content:     content,
		contacts:    contacts,
		newsletter:  newsletter,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ComputeDashboardSnapshot produces one internally consistent set of metrics.
// "Now" is captured exactly once and every windowed sub-query derives its
// boundary from it, so the 30-day and 7-day figures in a single snapshot can
// never drift apart. Sub-queries fan out concurrently; the first failure
// cancels the rest and the whole call fails with no partial result.
func (s *analyticsService) ComputeDashboardSnapshot(ctx context.Context, windowDays int) (*domain.DashboardSnapshot, error) {
	if windowDays <= 0 {
		return nil, errors.NewValidationError("windowDays must be a positive integer", map[string]interface{}{
			"windowDays": windowDays,
		})
	}

	if cached := s.cachedSnapshot(ctx, windowDays); cached != nil {
		return cached, nil
	}

	now := time.Now().UTC()
	window := repository.TimeWindowFilter{Start: now.AddDate(0, 0, -windowDays), End: now}
	shortWindow := repository.TimeWindowFilter{Start: now.AddDate(0, 0, -7), End: now}

	var (
		totalViews, viewsInWindow, viewsShort  int64
		uniqueVisitors                         int64
		topPages                               []domain.PageCount
		dailyStats                             []domain.DailyCount
		projectViews, postViews                int64
		topProjects                            []domain.ProjectViews
		contactsInWindow                       int64
		subsInWindow, subsTotal, subsConfirmed int64
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		totalViews, err = s.pageViews.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		viewsInWindow, err = s.pageViews.CountInWindow(gctx, window)
		return err
	})
	g.Go(func() (err error) {
		viewsShort, err = s.pageViews.CountInWindow(gctx, shortWindow)
		return err
	})
	g.Go(func() (err error) {
		uniqueVisitors, err = s.pageViews.CountDistinctIPs(gctx, window)
		return err
	})
	g.Go(func() (err error) {
		topPages, err = s.pageViews.TopPages(gctx, repository.GroupByCountQuery{Limit: topPagesLimit})
		return err
	})
	g.Go(func() (err error) {
		dailyStats, err = s.pageViews.DailyCounts(gctx, window)
		return err
	})
	g.Go(func() (err error) {
		projectViews, err = s.content.SumProjectViews(gctx)
		return err
	})
	g.Go(func() (err error) {
		postViews, err = s.content.SumPostViews(gctx)
		return err
	})
	g.Go(func() (err error) {
		topProjects, err = s.content.TopProjectsByViews(gctx, repository.GroupByCountQuery{Limit: topPagesLimit})
		return err
	})
	g.Go(func() (err error) {
		contactsInWindow, err = s.contacts.CountInWindow(gctx, window)
		return err
	})
	g.Go(func() (err error) {
		subsInWindow, err = s.newsletter.CountInWindow(gctx, window)
		return err
	})
	g.Go(func() (err error) {
		subsTotal, err = s.newsletter.CountAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		subsConfirmed, err = s.newsletter.CountConfirmed(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.WithError(err).WithField("window_days", windowDays).Error("Snapshot sub-query failed")
		return nil, errors.NewUnavailableError("analytics unavailable", err)
	}

	snapshot := &domain.DashboardSnapshot{
		WindowDays:  windowDays,
		GeneratedAt: now,
		PageViews: domain.PageViewStats{
			Total:          totalViews,
			InWindow:       viewsInWindow,
			InShortWindow:  viewsShort,
			UniqueVisitors: uniqueVisitors,
		},
		ContactSubmissions: contactsInWindow,
		NewsletterSubscriptions: domain.SubscriberStats{
			InWindow:  subsInWindow,
			Total:     subsTotal,
			Confirmed: subsConfirmed,
		},
		ContentViews: domain.ContentViewStats{
			ProjectViews:  projectViews,
			BlogPostViews: postViews,
		},
		TopPages:    topPages,
		TopProjects: topProjects,
		DailyStats:  dailyStats,
		Engagement:  computeEngagement(viewsInWindow, viewsShort, contactsInWindow, subsInWindow, subsTotal, subsConfirmed),
	}

	s.cacheSnapshot(ctx, windowDays, snapshot)

	return snapshot, nil
}

// computeEngagement derives the dashboard ratios. Every division is guarded:
// a zero denominator yields exactly 0, never NaN, Inf, or an error.
func computeEngagement(viewsInWindow, viewsShort, contacts, subsInWindow, subsTotal, subsConfirmed int64) domain.EngagementRates {
	rates := domain.EngagementRates{}

	// Growth compares the last 7 days against the rest of the window
	if prior := viewsInWindow - viewsShort; prior > 0 {
		rates.WeekOverWeekGrowthPct = round1(float64(viewsShort) / float64(prior) * 100)
	}

	if viewsInWindow > 0 {
		rates.ContactConversionPct = round2(float64(contacts) / float64(viewsInWindow) * 100)
		rates.NewsletterSignupPct = round2(float64(subsInWindow) / float64(viewsInWindow) * 100)
	}

	// The divisor stays 30 for every window length, including 7 and 90 day
	// views. Dashboards compare this figure against the 30-day baseline, so
	// it is pinned by a test rather than changed to windowDays.
	rates.AvgDailySignups = float64(subsInWindow) / 30

	if subsTotal > 0 {
		rates.ConfirmationRatePct = round1(float64(subsConfirmed) / float64(subsTotal) * 100)
	}

	return rates
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// cachedSnapshot returns a cached snapshot for the window, or nil. Cache
// failures only log; the caller recomputes.
func (s *analyticsService) cachedSnapshot(ctx context.Context, windowDays int) *domain.DashboardSnapshot {
	if s.redisClient == nil {
		return nil
	}

	raw, err := s.redisClient.Get(ctx, s.redisClient.KeyBuilder.KeySnapshot(windowDays))
	if err != nil {
		if err != redis.Nil {
			s.logger.WithError(err).Warn("Snapshot cache read failed")
		}
		return nil
	}

	snapshot := &domain.DashboardSnapshot{}
	if err := json.Unmarshal([]byte(raw), snapshot); err != nil {
		s.logger.WithError(err).Warn("Snapshot cache entry is malformed, recomputing")
		return nil
	}

	return snapshot
}

// cacheSnapshot stores a snapshot with a short TTL, best effort
func (s *analyticsService) cacheSnapshot(ctx context.Context, windowDays int, snapshot *domain.DashboardSnapshot) {
	if s.redisClient == nil {
		return
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to marshal snapshot for caching")
		return
	}

	if err := s.redisClient.Set(ctx, s.redisClient.KeyBuilder.KeySnapshot(windowDays), raw, redis.TTLSnapshot); err != nil {
		s.logger.WithError(err).Warn("Snapshot cache write failed")
	}
}

// RecordPageView appends one page-view event. Writes are rate limited per IP
// when Redis is available; without Redis every write is allowed.
func (s *analyticsService) RecordPageView(ctx context.Context, page, ip, userAgent, country string) (*domain.RateLimitInfo, error) {
	rateLimitInfo, err := s.checkRateLimit(ctx, ip)
	if err != nil {
		// A broken rate limiter must not drop traffic data
		s.logger.WithError(err).Warn("Rate limit check failed, allowing write")
		rateLimitInfo = &domain.RateLimitInfo{IsAllowed: true}
	}

	if !rateLimitInfo.IsAllowed {
		s.logger.WithFields(map[string]interface{}{
			"ip":            ip,
			"request_count": rateLimitInfo.RequestCount,
		}).Warn("Tracking rate limit exceeded")
		return rateLimitInfo, nil
	}

	view := &domain.PageView{
		Page:      page,
		IP:        optional(ip),
		UserAgent: optional(userAgent),
		Country:   optional(country),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.pageViews.Insert(ctx, view); err != nil {
		s.logger.WithError(err).Error("Failed to record page view")
		return nil, fmt.Errorf("failed to record page view: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"page":    page,
		"country": country,
	}).Debug("Page view recorded")

	return rateLimitInfo, nil
}

// checkRateLimit increments the per-IP counter and reports whether the write
// is within budget
func (s *analyticsService) checkRateLimit(ctx context.Context, ip string) (*domain.RateLimitInfo, error) {
	if s.redisClient == nil || ip == "" {
		return &domain.RateLimitInfo{IsAllowed: true}, nil
	}

	ipHash := fmt.Sprintf("%x", sha256.Sum256([]byte(ip)))
	rateLimitKey := s.redisClient.KeyBuilder.KeyTrackRateLimit(ipHash)

	count, err := s.redisClient.Incr(ctx, rateLimitKey)
	if err != nil {
		return nil, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	// Set expiry on first request in the window
	if count == 1 {
		if err := s.redisClient.Expire(ctx, rateLimitKey, redis.TTLTrackRateLimit); err != nil {
			s.logger.WithError(err).Warn("Failed to set rate limit key expiry")
		}
	}

	return &domain.RateLimitInfo{
		IsAllowed:    count <= RateLimitRequests,
		RequestCount: count,
		WindowStart:  time.Now().Truncate(RateLimitWindow),
		TTL:          redis.TTLTrackRateLimit,
	}, nil
}

// optional maps an empty string to a nil pointer for nullable columns
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
