package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is a submission from the public contact form. ExpiresAt is
// stamped at write time (CreatedAt + retention) so the cleanup sweep can use a
// plain expires_at < now filter without recomputing anything.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Company   *string   `json:"company,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Phone     *string   `json:"phone,omitempty"`
	Budget    *string   `json:"budget,omitempty"`
	Timeline  *string   `json:"timeline,omitempty"`
	Services  []string  `json:"services"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ContactRequest is the public contact form payload.
type ContactRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Company  string   `json:"company,omitempty"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
	Phone    string   `json:"phone,omitempty"`
	Budget   string   `json:"budget,omitempty"`
	Timeline string   `json:"timeline,omitempty"`
	Services []string `json:"services,omitempty"`
}
