package domain

import "time"

// DashboardSnapshot is one internally consistent set of dashboard metrics.
// Every windowed figure in it derives from the single GeneratedAt instant
// captured at the start of the aggregation call.
type DashboardSnapshot struct {
	WindowDays  int       `json:"windowDays"`
	GeneratedAt time.Time `json:"generatedAt"`

	PageViews               PageViewStats    `json:"pageViews"`
	ContactSubmissions      int64            `json:"contactSubmissions"`
	NewsletterSubscriptions SubscriberStats  `json:"newsletterSubscriptions"`
	ContentViews            ContentViewStats `json:"contentViews"`
	TopPages                []PageCount      `json:"topPages"`
	TopProjects             []ProjectViews   `json:"topProjects"`
	DailyStats              []DailyCount     `json:"dailyStats"`
	Engagement              EngagementRates  `json:"engagement"`
}

// PageViewStats holds raw traffic counts for the snapshot window.
// UniqueVisitors is a distinct-IP count: shared IPs undercount and dynamic
// IPs overcount, which is an accepted approximation.
type PageViewStats struct {
	Total          int64 `json:"total"`
	InWindow       int64 `json:"inWindow"`
	InShortWindow  int64 `json:"inShortWindow"`
	UniqueVisitors int64 `json:"uniqueVisitors"`
}

// SubscriberStats holds newsletter counts for the snapshot.
type SubscriberStats struct {
	InWindow  int64 `json:"inWindow"`
	Total     int64 `json:"total"`
	Confirmed int64 `json:"confirmed"`
}

// ContentViewStats holds all-time cumulative content counter sums.
type ContentViewStats struct {
	ProjectViews  int64 `json:"projectViews"`
	BlogPostViews int64 `json:"blogPostViews"`
}

// EngagementRates holds the derived ratios. Every percentage is exactly 0
// when its denominator is 0.
type EngagementRates struct {
	WeekOverWeekGrowthPct float64 `json:"weekOverWeekGrowthPct"`
	ContactConversionPct  float64 `json:"contactConversionPct"`
	NewsletterSignupPct   float64 `json:"newsletterSignupPct"`
	AvgDailySignups       float64 `json:"avgDailySignups"`
	ConfirmationRatePct   float64 `json:"confirmationRatePct"`
}
