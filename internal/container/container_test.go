package container

import (
	"context"
	"testing"

	"studio-api/internal/config"
	"studio-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_RequiresDatabaseURL(t *testing.T) {
	cfg := &config.Config{
		AdminJWTSecret: "secret",
	}

	_, err := New(context.Background(), cfg, &logger.Logger{Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestNew_RequiresJWTSecret(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL: "postgres://localhost:5432/studio",
	}

	_, err := New(context.Background(), cfg, &logger.Logger{Logger: zap.NewNop()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_JWT_SECRET")
}
