package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"studio-api/internal/domain"
	"studio-api/internal/service"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// ContentHandler serves public work/blog pages and the admin CMS routes
type ContentHandler struct {
	content service.ContentService
	logger  *logger.Logger
}

// NewContentHandler creates a new content handler
func NewContentHandler(content service.ContentService, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		content: content,
		logger:  logger,
	}
}

// ListProjects handles GET /api/projects
func (h *ContentHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.content.ListProjects(r.Context(), false)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	writeJSON(w, h.logger, http.StatusOK, projects)
}

// GetProject handles GET /api/projects/{slug}. Serving the detail page bumps
// the view counter once.
func (h *ContentHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.content.GetProject(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, p)
}

// ListPosts handles GET /api/blog
func (h *ContentHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context(), false)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if posts == nil {
		posts = []*domain.BlogPost{}
	}
	writeJSON(w, h.logger, http.StatusOK, posts)
}

// GetPost handles GET /api/blog/{slug}
func (h *ContentHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, err := h.content.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, p)
}

// AdminListProjects handles GET /api/admin/projects (includes unpublished)
func (h *ContentHandler) AdminListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.content.ListProjects(r.Context(), true)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if projects == nil {
		projects = []*domain.Project{}
	}
	writeJSON(w, h.logger, http.StatusOK, projects)
}

// CreateProject handles POST /api/admin/projects
func (h *ContentHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	if err := h.content.CreateProject(r.Context(), &p); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, p)
}

// UpdateProject handles PUT /api/admin/projects/{id}
func (h *ContentHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid project id", nil))
		return
	}

	var p domain.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}
	p.ID = id

	if err := h.content.UpdateProject(r.Context(), &p); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, p)
}

// DeleteProject handles DELETE /api/admin/projects/{id}
func (h *ContentHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid project id", nil))
		return
	}

	if err := h.content.DeleteProject(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "deleted"})
}

// AdminListPosts handles GET /api/admin/posts (includes unpublished)
func (h *ContentHandler) AdminListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.content.ListPosts(r.Context(), true)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if posts == nil {
		posts = []*domain.BlogPost{}
	}
	writeJSON(w, h.logger, http.StatusOK, posts)
}

// CreatePost handles POST /api/admin/posts
func (h *ContentHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var p domain.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}

	if err := h.content.CreatePost(r.Context(), &p); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusCreated, p)
}

// UpdatePost handles PUT /api/admin/posts/{id}
func (h *ContentHandler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid post id", nil))
		return
	}

	var p domain.BlogPost
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid request body", nil))
		return
	}
	p.ID = id

	if err := h.content.UpdatePost(r.Context(), &p); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, p)
}

// DeletePost handles DELETE /api/admin/posts/{id}
func (h *ContentHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, h.logger, errors.NewValidationError("invalid post id", nil))
		return
	}

	if err := h.content.DeletePost(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "deleted"})
}

// RegisterPublicRoutes registers the public content routes
func (h *ContentHandler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.ListProjects)
		r.Get("/{slug}", h.GetProject)
	})
	r.Route("/blog", func(r chi.Router) {
		r.Get("/", h.ListPosts)
		r.Get("/{slug}", h.GetPost)
	})
}

// RegisterAdminRoutes registers the CMS routes
func (h *ContentHandler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", h.AdminListProjects)
		r.Post("/", h.CreateProject)
		r.Put("/{id}", h.UpdateProject)
		r.Delete("/{id}", h.DeleteProject)
	})
	r.Route("/posts", func(r chi.Router) {
		r.Get("/", h.AdminListPosts)
		r.Post("/", h.CreatePost)
		r.Put("/{id}", h.UpdatePost)
		r.Delete("/{id}", h.DeletePost)
	})
}
