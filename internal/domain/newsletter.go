package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber is one newsletter subscription. Email is unique; a duplicate
// subscribe attempt is rejected, never upserted. Confirmed flips true through
// a separate confirmation flow.
type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed"`
	Source    *string   `json:"source,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubscribeRequest is the public newsletter signup payload.
type SubscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source,omitempty"`
}
