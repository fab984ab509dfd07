package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		`DROP TABLE IF EXISTS page_views CASCADE`,
		`DROP TABLE IF EXISTS contact_messages CASCADE`,
		`DROP TABLE IF EXISTS subscribers CASCADE`,
		`DROP TABLE IF EXISTS projects CASCADE`,
		`DROP TABLE IF EXISTS blog_posts CASCADE`,
		`DROP TABLE IF EXISTS admin_users CASCADE`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
		fmt.Printf("  Dropped: %s\n", query)
	}

	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	queries := []string{
		// Append-only page-view event log
		`CREATE TABLE IF NOT EXISTS page_views (
			id BIGSERIAL PRIMARY KEY,
			page TEXT NOT NULL,
			ip TEXT,
			user_agent TEXT,
			country TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS contact_messages (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			company VARCHAR(255),
			subject VARCHAR(255) NOT NULL,
			message TEXT NOT NULL,
			phone VARCHAR(50),
			budget VARCHAR(100),
			timeline VARCHAR(100),
			services TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			expires_at TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS subscribers (
			id UUID PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			confirmed BOOLEAN NOT NULL DEFAULT false,
			source VARCHAR(100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS projects (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			slug VARCHAR(255) UNIQUE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			featured BOOLEAN NOT NULL DEFAULT false,
			published BOOLEAN NOT NULL DEFAULT false,
			views BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS blog_posts (
			id BIGSERIAL PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			slug VARCHAR(255) UNIQUE NOT NULL,
			excerpt TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			published BOOLEAN NOT NULL DEFAULT false,
			views BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS admin_users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Indexes for the windowed aggregation queries
		`CREATE INDEX IF NOT EXISTS idx_page_views_created_at ON page_views(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_page_views_page ON page_views(page)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_messages_created_at ON contact_messages(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_contact_messages_expires_at ON contact_messages(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_subscribers_created_at ON subscribers(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_projects_published ON projects(published)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_published ON blog_posts(published)`,
	}

	for _, query := range queries {
		if _, err := conn.Exec(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, query)
		}
		fmt.Printf("  Created: %s\n", summarize(query))
	}

	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return fmt.Errorf("ADMIN_EMAIL and ADMIN_PASSWORD are required for seeding")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	query := `
		INSERT INTO admin_users (email, password_hash) VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
	`
	if _, err := conn.Exec(ctx, query, adminEmail, string(hash)); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	fmt.Println("  Seeded admin user")

	projects := `
		INSERT INTO projects (title, slug, description, category, featured, published) VALUES
		('Brand Refresh for Northwind', 'northwind-brand-refresh', 'Full identity redesign for a logistics company.', 'branding', true, true),
		('Aurora Festival Site', 'aurora-festival-site', 'Interactive site for a music festival.', 'web', true, true),
		('Atlas Annual Report', 'atlas-annual-report', 'Print and digital annual report.', 'print', false, true)
		ON CONFLICT (slug) DO NOTHING
	`
	if _, err := conn.Exec(ctx, projects); err != nil {
		return fmt.Errorf("failed to seed projects: %w", err)
	}
	fmt.Println("  Seeded 3 projects")

	posts := `
		INSERT INTO blog_posts (title, slug, excerpt, body, tags, published) VALUES
		('Designing for Motion', 'designing-for-motion', 'Notes on motion language.', 'Long-form body text.', '{design,motion}', true),
		('Our Studio Process', 'our-studio-process', 'How a project moves through the studio.', 'Long-form body text.', '{process}', true)
		ON CONFLICT (slug) DO NOTHING
	`
	if _, err := conn.Exec(ctx, posts); err != nil {
		return fmt.Errorf("failed to seed blog posts: %w", err)
	}
	fmt.Println("  Seeded 2 blog posts")

	return nil
}

func summarize(query string) string {
	if len(query) > 50 {
		return query[:50] + "..."
	}
	return query
}
