package domain

import (
	"context"
	"time"
)

// User is a student or staff member. User records are owned by the external
// auth/admin system; this subsystem only reads them for display fields.
// swagger:model User
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Section    string    `json:"section"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserRepository defines read access to users.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*User, error)
}

// TokenVerifier verifies a staff/attendee bearer token and returns the user ID.
// Tokens are issued by the external auth system; this subsystem only verifies.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}
