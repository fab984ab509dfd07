package service

import (
	"context"
	"testing"
	"time"

	"studio-api/internal/domain"
	"studio-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContactRequest() *domain.ContactRequest {
	return &domain.ContactRequest{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Subject: "Brand refresh",
		Message: "We need a new identity for our studio.",
	}
}

func TestContactSubmit_StampsExpiryAtWriteTime(t *testing.T) {
	repo := &stubContactRepo{}
	svc := NewContactService(repo, 30, testLogger())

	before := time.Now().UTC()
	msg, err := svc.Submit(context.Background(), validContactRequest())
	after := time.Now().UTC()
	require.NoError(t, err)

	// expiresAt = createdAt + 30 days, computed once at submission
	assert.Equal(t, msg.CreatedAt.AddDate(0, 0, 30), msg.ExpiresAt)
	assert.False(t, msg.CreatedAt.Before(before))
	assert.False(t, msg.CreatedAt.After(after))

	require.Len(t, repo.created, 1)
	assert.Equal(t, msg.ExpiresAt, repo.created[0].ExpiresAt)
}

func TestContactSubmit_RetentionPeriodIsConfigurable(t *testing.T) {
	repo := &stubContactRepo{}
	svc := NewContactService(repo, 90, testLogger())

	msg, err := svc.Submit(context.Background(), validContactRequest())
	require.NoError(t, err)
	assert.Equal(t, msg.CreatedAt.AddDate(0, 0, 90), msg.ExpiresAt)
}

func TestContactSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ContactRequest)
	}{
		{"missing name", func(r *domain.ContactRequest) { r.Name = "  " }},
		{"missing email", func(r *domain.ContactRequest) { r.Email = "" }},
		{"malformed email", func(r *domain.ContactRequest) { r.Email = "not-an-email" }},
		{"missing subject", func(r *domain.ContactRequest) { r.Subject = "" }},
		{"missing message", func(r *domain.ContactRequest) { r.Message = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubContactRepo{}
			svc := NewContactService(repo, 30, testLogger())

			req := validContactRequest()
			tt.mutate(req)

			_, err := svc.Submit(context.Background(), req)
			require.Error(t, err)

			var appErr *errors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, errors.ErrorTypeValidation, appErr.Type)
			assert.Empty(t, repo.created, "invalid submissions must not be stored")
		})
	}
}

func TestContactSubmit_NilServicesBecomesEmptySlice(t *testing.T) {
	repo := &stubContactRepo{}
	svc := NewContactService(repo, 30, testLogger())

	msg, err := svc.Submit(context.Background(), validContactRequest())
	require.NoError(t, err)
	assert.NotNil(t, msg.Services)
	assert.Empty(t, msg.Services)
}

func TestContactGet_NotFound(t *testing.T) {
	svc := NewContactService(&stubContactRepo{}, 30, testLogger())

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)

	var appErr *errors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, errors.ErrorTypeNotFound, appErr.Type)
}
