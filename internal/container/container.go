package container

import (
	"context"
	"fmt"

	"studio-api/internal/config"
	"studio-api/internal/repository"
	"studio-api/internal/service"
	"studio-api/internal/service/auth"
	"studio-api/pkg/database"
	"studio-api/pkg/logger"
	"studio-api/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Repositories *repository.Repositories
	Services     *service.Services
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AdminJWTSecret == "" {
		return nil, fmt.Errorf("ADMIN_JWT_SECRET is required")
	}

	db, err := database.NewPostgresDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Redis is optional: without it we lose snapshot caching and write rate
	// limiting, not correctness
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			log.Info("Redis client initialized successfully")
		}
	} else {
		log.Info("Redis URL not configured, proceeding without caching")
	}

	repos := &repository.Repositories{
		PageView:   repository.NewPageViewRepository(db),
		Content:    repository.NewContentRepository(db),
		Contact:    repository.NewContactRepository(db),
		Newsletter: repository.NewNewsletterRepository(db),
		Admin:      repository.NewAdminRepository(db),
	}

	services := &service.Services{
		Analytics:  service.NewAnalyticsService(repos.PageView, repos.Content, repos.Contact, repos.Newsletter, redisClient, log),
		Contact:    service.NewContactService(repos.Contact, cfg.ContactRetentionDays, log),
		Newsletter: service.NewNewsletterService(repos.Newsletter, log),
		Content:    service.NewContentService(repos.Content, log),
		Retention:  service.NewRetentionService(repos.Contact, cfg.CleanupSchedule, log),
		Auth:       auth.NewService(repos.Admin, cfg.AdminJWTSecret, log),
	}

	return &Container{
		Config:       cfg,
		Logger:       log,
		DB:           db,
		RedisClient:  redisClient,
		Repositories: repos,
		Services:     services,
	}, nil
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// HasRedis returns true if the Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
