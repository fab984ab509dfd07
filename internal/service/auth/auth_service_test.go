package auth

import (
	"context"
	"testing"

	"studio-api/internal/domain"
	"studio-api/internal/repository"
	apperrors "studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type stubAdminRepo struct {
	admins map[string]*domain.AdminUser
}

func (s *stubAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	if a, ok := s.admins[email]; ok {
		return a, nil
	}
	return nil, repository.ErrNotFound
}

func newTestService(t *testing.T, password string) *Service {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubAdminRepo{
		admins: map[string]*domain.AdminUser{
			"admin@example.com": {ID: 1, Email: "admin@example.com", PasswordHash: string(hash)},
		},
	}
	return NewService(repo, "test-secret", &logger.Logger{Logger: zap.NewNop()})
}

func TestLoginAndValidate(t *testing.T) {
	svc := newTestService(t, "s3cret")

	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.AdminID)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc := newTestService(t, "s3cret")

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrorTypeAuthentication, appErr.Type)
}

func TestLogin_UnknownEmailSameError(t *testing.T) {
	svc := newTestService(t, "s3cret")

	_, wrongPass := svc.Login(context.Background(), "admin@example.com", "wrong")
	_, unknown := svc.Login(context.Background(), "ghost@example.com", "wrong")

	// Credential probing must not reveal which part was wrong
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := newTestService(t, "s3cret")

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	svc := newTestService(t, "s3cret")
	token, err := svc.Login(context.Background(), "admin@example.com", "s3cret")
	require.NoError(t, err)

	other := NewService(&stubAdminRepo{}, "different-secret", &logger.Logger{Logger: zap.NewNop()})
	_, err = other.ValidateToken(token)
	require.Error(t, err)
}
