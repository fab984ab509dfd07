package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"studio-api/internal/domain"
	"studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAuthService struct {
	claims *domain.AuthClaims
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, error) {
	return "", errors.NewAuthenticationError("invalid credentials")
}

func (s *stubAuthService) ValidateToken(token string) (*domain.AuthClaims, error) {
	if token == "valid-token" && s.claims != nil {
		return s.claims, nil
	}
	return nil, errors.NewAuthenticationError("invalid or expired token")
}

func testMiddlewareLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func protectedHandler(t *testing.T, sawAdmin *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(AdminContextKey).(*domain.AuthClaims)
		require.True(t, ok, "claims must be in context")
		assert.Equal(t, int64(1), claims.AdminID)
		*sawAdmin = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAdminAuth_ValidToken(t *testing.T) {
	svc := &stubAuthService{claims: &domain.AuthClaims{AdminID: 1, Email: "admin@example.com"}}
	var sawAdmin bool
	handler := AdminAuth(svc, testMiddlewareLogger())(protectedHandler(t, &sawAdmin))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawAdmin)
}

func TestAdminAuth_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"bad token", "Bearer forged-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubAuthService{claims: &domain.AuthClaims{AdminID: 1}}
			var sawAdmin bool
			handler := AdminAuth(svc, testMiddlewareLogger())(protectedHandler(t, &sawAdmin))

			req := httptest.NewRequest(http.MethodGet, "/api/admin/analytics", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, sawAdmin, "handler must not run without a valid token")
		})
	}
}

func TestRequestID_SetsHeaderAndContext(t *testing.T) {
	var fromContext string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fromContext, _ = r.Context().Value(RequestIDContextKey).(string)
	})

	handler := RequestID(testMiddlewareLogger())(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), fromContext)
}
