package domain

import "time"

// AdminUser backs the dashboard login.
type AdminUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthClaims are the validated contents of an admin token.
type AuthClaims struct {
	AdminID int64  `json:"adminId"`
	Email   string `json:"email"`
}
