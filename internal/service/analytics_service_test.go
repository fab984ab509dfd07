package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"studio-api/internal/domain"
	"studio-api/internal/repository"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Stub repositories with overridable behavior per test. The zero value
// answers every query with zero rows.

type stubPageViewRepo struct {
	countAll      func(ctx context.Context) (int64, error)
	countInWindow func(ctx context.Context, w repository.TimeWindowFilter) (int64, error)
	countDistinct func(ctx context.Context, w repository.TimeWindowFilter) (int64, error)
	topPages      func(ctx context.Context, q repository.GroupByCountQuery) ([]domain.PageCount, error)
	dailyCounts   func(ctx context.Context, w repository.TimeWindowFilter) ([]domain.DailyCount, error)
	inserted      []*domain.PageView
	insertErr     error
}

func (s *stubPageViewRepo) Insert(ctx context.Context, view *domain.PageView) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, view)
	return nil
}

func (s *stubPageViewRepo) CountAll(ctx context.Context) (int64, error) {
	if s.countAll != nil {
		return s.countAll(ctx)
	}
	return 0, nil
}

func (s *stubPageViewRepo) CountInWindow(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
	if s.countInWindow != nil {
		return s.countInWindow(ctx, w)
	}
	return 0, nil
}

func (s *stubPageViewRepo) CountDistinctIPs(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
	if s.countDistinct != nil {
		return s.countDistinct(ctx, w)
	}
	return 0, nil
}

func (s *stubPageViewRepo) TopPages(ctx context.Context, q repository.GroupByCountQuery) ([]domain.PageCount, error) {
	if s.topPages != nil {
		return s.topPages(ctx, q)
	}
	return []domain.PageCount{}, nil
}

func (s *stubPageViewRepo) DailyCounts(ctx context.Context, w repository.TimeWindowFilter) ([]domain.DailyCount, error) {
	if s.dailyCounts != nil {
		return s.dailyCounts(ctx, w)
	}
	return []domain.DailyCount{}, nil
}

type stubContentRepo struct {
	sumProjectViews func(ctx context.Context) (int64, error)
	sumPostViews    func(ctx context.Context) (int64, error)
	topProjects     func(ctx context.Context, q repository.GroupByCountQuery) ([]domain.ProjectViews, error)

	projects map[string]*domain.Project
	posts    map[string]*domain.BlogPost

	projectIncrements []int64
	postIncrements    []int64
	incrementErr      error
}

func (s *stubContentRepo) IncrementProjectViews(ctx context.Context, id int64) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.projectIncrements = append(s.projectIncrements, id)
	return nil
}

func (s *stubContentRepo) IncrementPostViews(ctx context.Context, id int64) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}
	s.postIncrements = append(s.postIncrements, id)
	return nil
}

func (s *stubContentRepo) SumProjectViews(ctx context.Context) (int64, error) {
	if s.sumProjectViews != nil {
		return s.sumProjectViews(ctx)
	}
	return 0, nil
}

func (s *stubContentRepo) SumPostViews(ctx context.Context) (int64, error) {
	if s.sumPostViews != nil {
		return s.sumPostViews(ctx)
	}
	return 0, nil
}

func (s *stubContentRepo) TopProjectsByViews(ctx context.Context, q repository.GroupByCountQuery) ([]domain.ProjectViews, error) {
	if s.topProjects != nil {
		return s.topProjects(ctx, q)
	}
	return []domain.ProjectViews{}, nil
}

func (s *stubContentRepo) ListProjects(ctx context.Context, publishedOnly bool) ([]*domain.Project, error) {
	return nil, nil
}
func (s *stubContentRepo) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	if p, ok := s.projects[slug]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubContentRepo) CreateProject(ctx context.Context, p *domain.Project) error { return nil }
func (s *stubContentRepo) UpdateProject(ctx context.Context, p *domain.Project) error { return nil }
func (s *stubContentRepo) DeleteProject(ctx context.Context, id int64) error          { return nil }
func (s *stubContentRepo) ListPosts(ctx context.Context, publishedOnly bool) ([]*domain.BlogPost, error) {
	return nil, nil
}
func (s *stubContentRepo) GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	if p, ok := s.posts[slug]; ok {
		return p, nil
	}
	return nil, repository.ErrNotFound
}
func (s *stubContentRepo) CreatePost(ctx context.Context, p *domain.BlogPost) error { return nil }
func (s *stubContentRepo) UpdatePost(ctx context.Context, p *domain.BlogPost) error { return nil }
func (s *stubContentRepo) DeletePost(ctx context.Context, id int64) error           { return nil }

type stubContactRepo struct {
	created       []*domain.ContactMessage
	createErr     error
	countInWindow func(ctx context.Context, w repository.TimeWindowFilter) (int64, error)
	purged        int64
	purgeErr      error
}

func (s *stubContactRepo) Create(ctx context.Context, msg *domain.ContactMessage) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, msg)
	return nil
}

func (s *stubContactRepo) ListActive(ctx context.Context, now time.Time) ([]*domain.ContactMessage, error) {
	return []*domain.ContactMessage{}, nil
}

func (s *stubContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactMessage, error) {
	for _, msg := range s.created {
		if msg.ID == id {
			return msg, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubContactRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return repository.ErrNotFound
}

func (s *stubContactRepo) CountInWindow(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
	if s.countInWindow != nil {
		return s.countInWindow(ctx, w)
	}
	return 0, nil
}

func (s *stubContactRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	return s.purged, s.purgeErr
}

type stubNewsletterRepo struct {
	created        []*domain.Subscriber
	createErr      error
	countAll       func(ctx context.Context) (int64, error)
	countConfirmed func(ctx context.Context) (int64, error)
	countInWindow  func(ctx context.Context, w repository.TimeWindowFilter) (int64, error)
}

func (s *stubNewsletterRepo) Create(ctx context.Context, sub *domain.Subscriber) error {
	if s.createErr != nil {
		return s.createErr
	}
	for _, existing := range s.created {
		if existing.Email == sub.Email {
			return repository.ErrDuplicateEmail
		}
	}
	s.created = append(s.created, sub)
	return nil
}

func (s *stubNewsletterRepo) Confirm(ctx context.Context, email string) error {
	return repository.ErrNotFound
}
func (s *stubNewsletterRepo) DeleteByEmail(ctx context.Context, email string) error {
	return repository.ErrNotFound
}
func (s *stubNewsletterRepo) List(ctx context.Context) ([]*domain.Subscriber, error) {
	return s.created, nil
}

func (s *stubNewsletterRepo) CountAll(ctx context.Context) (int64, error) {
	if s.countAll != nil {
		return s.countAll(ctx)
	}
	return 0, nil
}

func (s *stubNewsletterRepo) CountConfirmed(ctx context.Context) (int64, error) {
	if s.countConfirmed != nil {
		return s.countConfirmed(ctx)
	}
	return 0, nil
}

func (s *stubNewsletterRepo) CountInWindow(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
	if s.countInWindow != nil {
		return s.countInWindow(ctx, w)
	}
	return 0, nil
}

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func newAnalyticsServiceForTest(pv *stubPageViewRepo, ct *stubContentRepo, cc *stubContactRepo, nl *stubNewsletterRepo) AnalyticsService {
	return NewAnalyticsService(pv, ct, cc, nl, nil, testLogger())
}

func constCount(n int64) func(ctx context.Context) (int64, error) {
	return func(ctx context.Context) (int64, error) { return n, nil }
}

func windowedCount(total, short int64) func(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
	return func(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
		// The 7-day window is strictly shorter than the full window
		if w.End.Sub(w.Start) <= 7*24*time.Hour {
			return short, nil
		}
		return total, nil
	}
}

func TestComputeDashboardSnapshot_EmptyStore(t *testing.T) {
	svc := newAnalyticsServiceForTest(&stubPageViewRepo{}, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	snapshot, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.NoError(t, err)
	require.NotNil(t, snapshot)

	assert.Equal(t, 30, snapshot.WindowDays)
	assert.Zero(t, snapshot.PageViews.Total)
	assert.Zero(t, snapshot.PageViews.InWindow)
	assert.Zero(t, snapshot.PageViews.UniqueVisitors)
	assert.Zero(t, snapshot.ContactSubmissions)
	assert.Empty(t, snapshot.TopPages)
	assert.Empty(t, snapshot.DailyStats)

	// Every ratio is exactly zero, never NaN or Inf
	assert.Equal(t, 0.0, snapshot.Engagement.WeekOverWeekGrowthPct)
	assert.Equal(t, 0.0, snapshot.Engagement.ContactConversionPct)
	assert.Equal(t, 0.0, snapshot.Engagement.NewsletterSignupPct)
	assert.Equal(t, 0.0, snapshot.Engagement.AvgDailySignups)
	assert.Equal(t, 0.0, snapshot.Engagement.ConfirmationRatePct)
}

func TestComputeDashboardSnapshot_WeekOverWeekGrowth(t *testing.T) {
	// 100 views in the 30-day window, 40 of them in the last 7 days:
	// growth = 40 / (100 - 40) * 100 = 66.7 after rounding
	pv := &stubPageViewRepo{
		countAll:      constCount(100),
		countInWindow: windowedCount(100, 40),
	}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	snapshot, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, int64(100), snapshot.PageViews.InWindow)
	assert.Equal(t, int64(40), snapshot.PageViews.InShortWindow)
	assert.Equal(t, 66.7, snapshot.Engagement.WeekOverWeekGrowthPct)
}

func TestComputeDashboardSnapshot_ConversionRates(t *testing.T) {
	pv := &stubPageViewRepo{
		countAll:      constCount(1000),
		countInWindow: windowedCount(1000, 200),
	}
	cc := &stubContactRepo{
		countInWindow: func(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
			return 15, nil
		},
	}
	nl := &stubNewsletterRepo{
		countAll:       constCount(80),
		countConfirmed: constCount(60),
		countInWindow: func(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
			return 30, nil
		},
	}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, cc, nl)

	snapshot, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, 1.5, snapshot.Engagement.ContactConversionPct)  // 15/1000
	assert.Equal(t, 3.0, snapshot.Engagement.NewsletterSignupPct)   // 30/1000
	assert.Equal(t, 1.0, snapshot.Engagement.AvgDailySignups)       // 30/30
	assert.Equal(t, 75.0, snapshot.Engagement.ConfirmationRatePct)  // 60/80
}

func TestComputeDashboardSnapshot_AvgDailySignupsDivisorIsFixed(t *testing.T) {
	// The average divides by 30 regardless of the requested window so the
	// figure stays comparable across 7, 30, and 90 day dashboard views.
	nl := &stubNewsletterRepo{
		countInWindow: func(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
			return 60, nil
		},
	}
	svc := newAnalyticsServiceForTest(&stubPageViewRepo{}, &stubContentRepo{}, &stubContactRepo{}, nl)

	for _, days := range []int{7, 30, 90} {
		snapshot, err := svc.ComputeDashboardSnapshot(context.Background(), days)
		require.NoError(t, err)
		assert.Equal(t, 2.0, snapshot.Engagement.AvgDailySignups, "windowDays=%d", days)
	}
}

func TestComputeDashboardSnapshot_UniqueVisitorsNeverExceedViews(t *testing.T) {
	pv := &stubPageViewRepo{
		countAll:      constCount(50),
		countInWindow: windowedCount(50, 10),
		countDistinct: func(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
			return 12, nil
		},
	}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	snapshot, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.NoError(t, err)
	assert.LessOrEqual(t, snapshot.PageViews.UniqueVisitors, snapshot.PageViews.InWindow)
}

func TestComputeDashboardSnapshot_TopPagesBoundedAndOrdered(t *testing.T) {
	pv := &stubPageViewRepo{
		topPages: func(ctx context.Context, q repository.GroupByCountQuery) ([]domain.PageCount, error) {
			require.Equal(t, 10, q.Limit)
			return []domain.PageCount{
				{Page: "/", Count: 500},
				{Page: "/work", Count: 220},
				{Page: "/about", Count: 220},
				{Page: "/contact", Count: 40},
			}, nil
		},
	}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	snapshot, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.NoError(t, err)

	require.LessOrEqual(t, len(snapshot.TopPages), 10)
	for i := 1; i < len(snapshot.TopPages); i++ {
		assert.GreaterOrEqual(t, snapshot.TopPages[i-1].Count, snapshot.TopPages[i].Count)
	}
}

func TestComputeDashboardSnapshot_IdempotentOnStaticData(t *testing.T) {
	pv := &stubPageViewRepo{
		countAll:      constCount(100),
		countInWindow: windowedCount(100, 40),
	}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	first, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.NoError(t, err)
	second, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.NoError(t, err)

	first.GeneratedAt = second.GeneratedAt
	assert.Equal(t, first, second)
}

func TestComputeDashboardSnapshot_RejectsNonPositiveWindow(t *testing.T) {
	svc := newAnalyticsServiceForTest(&stubPageViewRepo{}, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	for _, days := range []int{0, -1, -30} {
		_, err := svc.ComputeDashboardSnapshot(context.Background(), days)
		require.Error(t, err, "windowDays=%d", days)

		var appErr *errors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
	}
}

func TestComputeDashboardSnapshot_SubQueryFailureFailsWhole(t *testing.T) {
	queryErr := stderrors.New("connection reset")
	pv := &stubPageViewRepo{
		countAll: constCount(100),
		countDistinct: func(ctx context.Context, w repository.TimeWindowFilter) (int64, error) {
			return 0, queryErr
		},
	}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	snapshot, err := svc.ComputeDashboardSnapshot(context.Background(), 30)
	require.Error(t, err)
	assert.Nil(t, snapshot, "a failed snapshot must not return partial data")

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeUnavailable, appErr.Type)
	assert.ErrorIs(t, err, queryErr)
}

func TestRecordPageView_PersistsEvent(t *testing.T) {
	pv := &stubPageViewRepo{}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	info, err := svc.RecordPageView(context.Background(), "/work", "203.0.113.9", "Mozilla/5.0", "TH")
	require.NoError(t, err)
	assert.True(t, info.IsAllowed)

	require.Len(t, pv.inserted, 1)
	view := pv.inserted[0]
	assert.Equal(t, "/work", view.Page)
	require.NotNil(t, view.IP)
	assert.Equal(t, "203.0.113.9", *view.IP)
	require.NotNil(t, view.Country)
	assert.Equal(t, "TH", *view.Country)
	assert.False(t, view.CreatedAt.IsZero())
}

func TestRecordPageView_EmptyOptionalFieldsStayNil(t *testing.T) {
	pv := &stubPageViewRepo{}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	_, err := svc.RecordPageView(context.Background(), "/", "", "", "")
	require.NoError(t, err)

	require.Len(t, pv.inserted, 1)
	assert.Nil(t, pv.inserted[0].IP)
	assert.Nil(t, pv.inserted[0].UserAgent)
	assert.Nil(t, pv.inserted[0].Country)
}

func TestRecordPageView_InsertFailurePropagates(t *testing.T) {
	pv := &stubPageViewRepo{insertErr: stderrors.New("disk full")}
	svc := newAnalyticsServiceForTest(pv, &stubContentRepo{}, &stubContactRepo{}, &stubNewsletterRepo{})

	_, err := svc.RecordPageView(context.Background(), "/", "203.0.113.9", "", "")
	require.Error(t, err)
}
