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

// AuthHandler serves the admin login
type AuthHandler struct {
	auth   service.AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth service.AuthService, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, h.logger, errors.NewValidationError("email and password are required", nil))
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"token": token})
}

// RegisterPublicRoutes registers the login route
func (h *AuthHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.Login)
}
