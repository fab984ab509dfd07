package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-api/internal/domain"
	"studio-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// contentRepository stores projects and blog posts in PostgreSQL
type contentRepository struct {
	db *database.PostgresDB
}

// NewContentRepository creates a new content repository
func NewContentRepository(db *database.PostgresDB) ContentRepository {
	return &contentRepository{
		db: db,
	}
}

// IncrementProjectViews bumps a project counter by one. The increment happens
// in the UPDATE itself, never as application-level read-modify-write, so
// concurrent renders of the same project cannot lose updates.
func (r *contentRepository) IncrementProjectViews(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE projects SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment project views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementPostViews bumps a blog post counter by one
func (r *contentRepository) IncrementPostViews(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `UPDATE blog_posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to increment post views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SumProjectViews returns the all-time sum of project view counters
func (r *contentRepository) SumProjectViews(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COALESCE(SUM(views), 0) FROM projects`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum project views: %w", err)
	}
	return sum, nil
}

// SumPostViews returns the all-time sum of blog post view counters
func (r *contentRepository) SumPostViews(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COALESCE(SUM(views), 0) FROM blog_posts`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum blog post views: %w", err)
	}
	return sum, nil
}

// TopProjectsByViews returns published projects ranked by view counter
func (r *contentRepository) TopProjectsByViews(ctx context.Context, q GroupByCountQuery) ([]domain.ProjectViews, error) {
	query := `
		SELECT id, title, slug, views
		FROM projects
		WHERE published = true
		ORDER BY views DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top projects: %w", err)
	}
	defer rows.Close()

	var results []domain.ProjectViews
	for rows.Next() {
		var pv domain.ProjectViews
		if err := rows.Scan(&pv.ID, &pv.Title, &pv.Slug, &pv.Views); err != nil {
			return nil, fmt.Errorf("failed to scan top project row: %w", err)
		}
		results = append(results, pv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading top project rows: %w", err)
	}

	return results, nil
}

const projectColumns = `id, title, slug, description, category, featured, published, views, created_at, updated_at`

func scanProject(row pgx.Row) (*domain.Project, error) {
	p := &domain.Project{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Description,
		&p.Category,
		&p.Featured,
		&p.Published,
		&p.Views,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns projects, optionally only published ones, newest first
func (r *contentRepository) ListProjects(ctx context.Context, publishedOnly bool) ([]*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading project rows: %w", err)
	}

	return projects, nil
}

// GetProjectBySlug returns one project by slug
func (r *contentRepository) GetProjectBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE slug = $1`

	p, err := scanProject(r.db.Pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project by slug: %w", err)
	}

	return p, nil
}

// CreateProject persists a new project
func (r *contentRepository) CreateProject(ctx context.Context, p *domain.Project) error {
	query := `
		INSERT INTO projects (title, slug, description, category, featured, published, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $7)
		RETURNING id, views, created_at, updated_at
	`

	now := time.Now().UTC()
	err := r.db.Pool.QueryRow(ctx, query,
		p.Title,
		p.Slug,
		p.Description,
		p.Category,
		p.Featured,
		p.Published,
		now,
	).Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// UpdateProject updates an existing project. The views counter is not
// touched here; it only moves through IncrementProjectViews.
func (r *contentRepository) UpdateProject(ctx context.Context, p *domain.Project) error {
	query := `
		UPDATE projects
		SET title = $2, slug = $3, description = $4, category = $5, featured = $6, published = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Description,
		p.Category,
		p.Featured,
		p.Published,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteProject removes a project
func (r *contentRepository) DeleteProject(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const postColumns = `id, title, slug, excerpt, body, tags, published, views, created_at, updated_at`

func scanPost(row pgx.Row) (*domain.BlogPost, error) {
	p := &domain.BlogPost{}
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Slug,
		&p.Excerpt,
		&p.Body,
		&p.Tags,
		&p.Published,
		&p.Views,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns blog posts, optionally only published ones, newest first
func (r *contentRepository) ListPosts(ctx context.Context, publishedOnly bool) ([]*domain.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query blog posts: %w", err)
	}
	defer rows.Close()

	var posts []*domain.BlogPost
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blog post row: %w", err)
		}
		posts = append(posts, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading blog post rows: %w", err)
	}

	return posts, nil
}

// GetPostBySlug returns one blog post by slug
func (r *contentRepository) GetPostBySlug(ctx context.Context, slug string) (*domain.BlogPost, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`

	p, err := scanPost(r.db.Pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get blog post by slug: %w", err)
	}

	return p, nil
}

// CreatePost persists a new blog post
func (r *contentRepository) CreatePost(ctx context.Context, p *domain.BlogPost) error {
	query := `
		INSERT INTO blog_posts (title, slug, excerpt, body, tags, published, views, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $7)
		RETURNING id, views, created_at, updated_at
	`

	now := time.Now().UTC()
	err := r.db.Pool.QueryRow(ctx, query,
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Body,
		p.Tags,
		p.Published,
		now,
	).Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create blog post: %w", err)
	}

	return nil
}

// UpdatePost updates an existing blog post
func (r *contentRepository) UpdatePost(ctx context.Context, p *domain.BlogPost) error {
	query := `
		UPDATE blog_posts
		SET title = $2, slug = $3, excerpt = $4, body = $5, tags = $6, published = $7, updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Slug,
		p.Excerpt,
		p.Body,
		p.Tags,
		p.Published,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to update blog post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeletePost removes a blog post
func (r *contentRepository) DeletePost(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete blog post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
