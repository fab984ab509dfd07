package handler

import (
	"encoding/json"
	"net/http"

	"studio-api/internal/domain"
	"studio-api/internal/service"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// NewsletterHandler serves newsletter signup and the admin subscriber list
type NewsletterHandler struct {
	newsletter service.NewsletterService
	logger     *logger.Logger
}

// NewNewsletterHandler creates a new newsletter handler
func NewNewsletterHandler(newsletter service.NewsletterService, logger *logger.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		newsletter: newsletter,
		logger:     logger,
	}
}

// Subscribe handles POST /api/newsletter
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req domain.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	sub, err := h.newsletter.Subscribe(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, map[string]string{"id": sub.ID.String()})
}

// Confirm handles POST /api/newsletter/{email}/confirm
func (h *NewsletterHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.newsletter.Confirm(r.Context(), email); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "confirmed"})
}

// Unsubscribe handles DELETE /api/newsletter/{email}
func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	if err := h.newsletter.Unsubscribe(r.Context(), email); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "unsubscribed"})
}

// List handles GET /api/admin/subscribers
func (h *NewsletterHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.newsletter.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if subs == nil {
		subs = []*domain.Subscriber{}
	}

	writeJSON(w, h.logger, http.StatusOK, subs)
}

// RegisterPublicRoutes registers the public newsletter routes
func (h *NewsletterHandler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/newsletter", func(r chi.Router) {
		r.Post("/", h.Subscribe)
		r.Post("/{email}/confirm", h.Confirm)
		r.Delete("/{email}", h.Unsubscribe)
	})
}

// RegisterAdminRoutes registers the admin subscriber list route
func (h *NewsletterHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/subscribers", h.List)
}
