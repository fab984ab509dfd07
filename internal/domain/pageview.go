package domain

import "time"

// PageView is one append-only page-view event recorded by the public tracking
// endpoint. Rows are never updated; the aggregator only reads them.
type PageView struct {
	ID        int64     `json:"id"`
	Page      string    `json:"page"`
	IP        *string   `json:"ip,omitempty"`
	UserAgent *string   `json:"userAgent,omitempty"`
	Country   *string   `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PageCount is a per-page view count produced by the top-pages group-by.
type PageCount struct {
	Page  string `json:"page"`
	Count int64  `json:"count"`
}

// DailyCount is one calendar-day bucket of the traffic time series.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// RateLimitInfo describes the per-IP write budget for the tracking endpoint.
type RateLimitInfo struct {
	IsAllowed    bool          `json:"isAllowed"`
	RequestCount int64         `json:"requestCount"`
	WindowStart  time.Time     `json:"windowStart"`
	TTL          time.Duration `json:"ttl"`
}
