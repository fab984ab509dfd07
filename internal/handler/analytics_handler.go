package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"studio-api/internal/service"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// AnalyticsHandler serves the public page-view write and the admin dashboard read
type AnalyticsHandler struct {
	analytics service.AnalyticsService
	logger    *logger.Logger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics service.AnalyticsService, logger *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// TrackRequest is the public page-view payload. The IP comes from the
// connection, never from the body.
type TrackRequest struct {
	Page      string `json:"page"`
	UserAgent string `json:"userAgent,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Track handles POST /api/analytics
func (h *AnalyticsHandler) Track(w http.ResponseWriter, r *http.Request) {
	var req TrackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}
	if req.Page == "" {
		writeError(w, h.logger, errors.NewValidationError("page is required", nil))
		return
	}

	userAgent := req.UserAgent
	if userAgent == "" {
		userAgent = r.UserAgent()
	}

	rateLimit, err := h.analytics.RecordPageView(r.Context(), req.Page, realIPAddress(r), userAgent, req.Country)
	if err != nil {
		writeError(w, h.logger, errors.NewInternalError("Failed to record page view", err))
		return
	}

	if !rateLimit.IsAllowed {
		h.setRateLimitHeaders(w, rateLimit.RequestCount)
		writeError(w, h.logger, errors.NewRateLimitError("Rate limit exceeded. Please try again later."))
		return
	}

	h.setRateLimitHeaders(w, rateLimit.RequestCount)
	writeJSON(w, h.logger, http.StatusAccepted, map[string]string{"status": "recorded"})
}

// Dashboard handles GET /api/admin/analytics?days=N
func (h *AnalyticsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	days := service.DefaultWindowDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, h.logger, errors.NewValidationError("days must be a positive integer", map[string]interface{}{
				"days": raw,
			}))
			return
		}
		days = parsed
	}

	snapshot, err := h.analytics.ComputeDashboardSnapshot(r.Context(), days)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, snapshot)
}

func (h *AnalyticsHandler) setRateLimitHeaders(w http.ResponseWriter, requestCount int64) {
	remaining := int64(service.RateLimitRequests) - requestCount
	if remaining < 0 {
		remaining = 0
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(service.RateLimitRequests))
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Truncate(service.RateLimitWindow).Add(service.RateLimitWindow).Unix(), 10))
}

// RegisterPublicRoutes registers the unauthenticated tracking route
func (h *AnalyticsHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/analytics", h.Track)
}

// RegisterAdminRoutes registers the authenticated dashboard route
func (h *AnalyticsHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/analytics", h.Dashboard)
}
