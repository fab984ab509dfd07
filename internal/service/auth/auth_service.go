package auth

import (
	"context"
	"fmt"
	"time"

	"studio-api/internal/domain"
	"studio-api/internal/repository"
	apperrors "studio-api/pkg/errors"
	"studio-api/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is how long an admin session token stays valid
const tokenTTL = 24 * time.Hour

// Claims carries the admin identity inside a signed token
type Claims struct {
	AdminID int64  `json:"admin_id"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// Service authenticates dashboard admins with credentials and HS256 tokens
type Service struct {
	admins repository.AdminRepository
	secret []byte
	logger *logger.Logger
}

// NewService creates a new auth service
func NewService(admins repository.AdminRepository, secret string, logger *logger.Logger) *Service {
	return &Service{
		admins: admins,
		secret: []byte(secret),
		logger: logger,
	}
}

// Login checks credentials against the admin_users table and returns a signed
// token. Unknown email and wrong password produce the same generic error.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return "", apperrors.NewAuthenticationError("invalid credentials")
		}
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.logger.WithField("admin_id", admin.ID).Warn("Failed admin login attempt")
		return "", apperrors.NewAuthenticationError("invalid credentials")
	}

	now := time.Now()
	claims := &Claims{
		AdminID: admin.ID,
		Email:   admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "studio-api",
			Subject:   fmt.Sprintf("%d", admin.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.WithField("admin_id", admin.ID).Info("Admin logged in")
	return signed, nil
}

// ValidateToken parses and verifies a token string
func (s *Service) ValidateToken(tokenString string) (*domain.AuthClaims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.NewAuthenticationError("invalid or expired token")
	}

	return &domain.AuthClaims{
		AdminID: claims.AdminID,
		Email:   claims.Email,
	}, nil
}
