package handler

import (
	"net/http"
	"time"

	"studio-api/pkg/database"
	"studio-api/pkg/logger"
	"studio-api/pkg/redis"
)

// HealthHandler reports service and dependency health
type HealthHandler struct {
	db          *database.PostgresDB
	redisClient *redis.Client
	logger      *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.PostgresDB, redisClient *redis.Client, logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:          db,
		redisClient: redisClient,
		logger:      logger,
	}
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := http.StatusOK

	checks := map[string]string{}

	if err := h.db.Health(ctx); err != nil {
		h.logger.WithError(err).Error("Database health check failed")
		checks["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "healthy"
	}

	if h.redisClient != nil {
		if err := h.redisClient.Health(ctx); err != nil {
			h.logger.WithError(err).Warn("Redis health check failed")
			checks["redis"] = "unhealthy"
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "disabled"
	}

	writeJSON(w, h.logger, status, map[string]interface{}{
		"service":   "studio-api",
		"checks":    checks,
		"timestamp": time.Now().UTC(),
	})
}
