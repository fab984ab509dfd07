package handler

import (
	"encoding/json"
	"net/http"

	"studio-api/internal/domain"
	"studio-api/internal/service"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// ContactHandler serves the public contact form and the admin inbox
type ContactHandler struct {
	contact service.ContactService
	logger  *logger.Logger
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contact service.ContactService, logger *logger.Logger) *ContactHandler {
	return &ContactHandler{
		contact: contact,
		logger:  logger,
	}
}

// Submit handles POST /api/contact
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	msg, err := h.contact.Submit(r.Context(), &req)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, map[string]string{"id": msg.ID.String()})
}

// List handles GET /api/admin/messages
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	messages, err := h.contact.ListActive(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if messages == nil {
		messages = []*domain.ContactMessage{}
	}

	writeJSON(w, h.logger, http.StatusOK, messages)
}

// Get handles GET /api/admin/messages/{id}
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid message id", nil))
		return
	}

	msg, err := h.contact.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, msg)
}

// Delete handles DELETE /api/admin/messages/{id}
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid message id", nil))
		return
	}

	if err := h.contact.Delete(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "deleted"})
}

// RegisterPublicRoutes registers the public contact form route
func (h *ContactHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/contact", h.Submit)
}

// RegisterAdminRoutes registers the admin inbox routes
func (h *ContactHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
	})
}
