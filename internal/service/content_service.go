package service

import (
	"context"
	"fmt"
	"strings"

	"studio-api/internal/domain"
	"studio-api/internal/repository"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"
)

// contentService handles projects and blog posts
type contentService struct {
	repo   repository.ContentRepository
	logger *logger.Logger
}

// NewContentService creates a new content service
func NewContentService(repo repository.ContentRepository, logger *logger.Logger) ContentService {
	return &contentService{
		repo:   repo,
		logger: logger,
	}
}

// ListProjects returns projects; public callers see published rows only
func (s *contentService) ListProjects(ctx context.Context, includeUnpublished bool) ([]*domain.Project, error) {
	projects, err := s.repo.ListProjects(ctx, !includeUnpublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a published project and bumps its view counter. The
// increment is fire-and-forget: a counter failure is logged and the page is
// still served.
func (s *contentService) GetProject(ctx context.Context, slug string) (*domain.Project, error) {
	p, err := s.repo.GetProjectBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NewNotFoundError("project not found")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if !p.Published {
		return nil, errors.NewNotFoundError("project not found")
	}

	if err := s.repo.IncrementProjectViews(ctx, p.ID); err != nil {
		s.logger.WithError(err).WithField("project_id", p.ID).Warn("Failed to increment project views")
	} else {
		p.Views++
	}

	return p, nil
}

// CreateProject persists a new project
func (s *contentService) CreateProject(ctx context.Context, p *domain.Project) error {
	if err := validateSlug(p.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.NewValidationError("title is required", nil)
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"project_id": p.ID,
		"slug":       p.Slug,
	}).Info("Project created")
	return nil
}

// UpdateProject updates an existing project
func (s *contentService) UpdateProject(ctx context.Context, p *domain.Project) error {
	if err := validateSlug(p.Slug); err != nil {
		return err
	}

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("project not found")
		}
		return fmt.Errorf("failed to update project: %w", err)
	}

	return nil
}

// DeleteProject removes a project
func (s *contentService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("project not found")
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.WithField("project_id", id).Info("Project deleted")
	return nil
}

// ListPosts returns blog posts; public callers see published rows only
func (s *contentService) ListPosts(ctx context.Context, includeUnpublished bool) ([]*domain.BlogPost, error) {
	posts, err := s.repo.ListPosts(ctx, !includeUnpublished)
	if err != nil {
		return nil, fmt.Errorf("failed to list blog posts: %w", err)
	}
	return posts, nil
}

// GetPost returns a published blog post and bumps its view counter
func (s *contentService) GetPost(ctx context.Context, slug string) (*domain.BlogPost, error) {
	p, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil, errors.NewNotFoundError("post not found")
		}
		return nil, fmt.Errorf("failed to get blog post: %w", err)
	}
	if !p.Published {
		return nil, errors.NewNotFoundError("post not found")
	}

	if err := s.repo.IncrementPostViews(ctx, p.ID); err != nil {
		s.logger.WithError(err).WithField("post_id", p.ID).Warn("Failed to increment post views")
	} else {
		p.Views++
	}

	return p, nil
}

// CreatePost persists a new blog post
func (s *contentService) CreatePost(ctx context.Context, p *domain.BlogPost) error {
	if err := validateSlug(p.Slug); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.NewValidationError("title is required", nil)
	}

	if err := s.repo.CreatePost(ctx, p); err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"post_id": p.ID,
		"slug":    p.Slug,
	}).Info("Blog post created")
	return nil
}

// UpdatePost updates an existing blog post
func (s *contentService) UpdatePost(ctx context.Context, p *domain.BlogPost) error {
	if err := validateSlug(p.Slug); err != nil {
		return err
	}

	if err := s.repo.UpdatePost(ctx, p); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("post not found")
		}
		return fmt.Errorf("failed to update blog post: %w", err)
	}

	return nil
}

// DeletePost removes a blog post
func (s *contentService) DeletePost(ctx context.Context, id int64) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return errors.NewNotFoundError("post not found")
		}
		return fmt.Errorf("failed to delete blog post: %w", err)
	}

	s.logger.WithField("post_id", id).Info("Blog post deleted")
	return nil
}

func validateSlug(slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return errors.NewValidationError("slug is required", nil)
	}
	for _, r := range slug {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return errors.NewValidationError("slug may only contain lowercase letters, digits and hyphens", map[string]interface{}{
				"slug": slug,
			})
		}
	}
	return nil
}
