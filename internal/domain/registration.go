package domain

import (
	"context"
	"time"
)

// RegistrationStatus is the attendance lifecycle state of a registration.
type RegistrationStatus string

const (
	// StatusRegistered is the initial state after a successful registration.
	StatusRegistered RegistrationStatus = "registered"
	// StatusAttended is set by the validation engine on the first accepted scan.
	StatusAttended RegistrationStatus = "attended"
	// StatusAbsent is a terminal state set by post-event reconciliation.
	StatusAbsent RegistrationStatus = "absent"
)

// Registration binds one user to one event and tracks its attendance state.
// Exactly one registration exists per (user, event) pair; the token is minted
// once at creation and immutable thereafter.
// swagger:model Registration
type Registration struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	EventID      string             `json:"event_id"`
	Token        string             `json:"token"`
	Status       RegistrationStatus `json:"status"`
	RegisteredAt time.Time          `json:"registered_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// NewRegistration returns a Registration in the registered state.
// ID and Token are set by the registration service before persisting.
func NewRegistration(userID, eventID string, now time.Time) *Registration {
	return &Registration{
		UserID:       userID,
		EventID:      eventID,
		Status:       StatusRegistered,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	// Create inserts the registration. Returns ErrAlreadyRegistered when a
	// registration for the same (user, event) pair already exists.
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByUserAndEvent(ctx context.Context, userID, eventID string) (*Registration, error)
	ListByEventID(ctx context.Context, eventID string, p PaginationParams) ([]*Registration, int, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	// MarkAttended transitions status to attended only if it is currently
	// registered, as one atomic conditional update. Returns true when this
	// call won the transition, false when the registration was already
	// attended (or absent). ErrNotFound when the registration is missing.
	MarkAttended(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

// RegistrationWithEvent bundles a registration with its event for display.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// BulkItemStatus reports the per-user outcome of a bulk registration.
type BulkItemStatus string

const (
	BulkCreated           BulkItemStatus = "created"
	BulkAlreadyRegistered BulkItemStatus = "already_registered"
	BulkEventFull         BulkItemStatus = "event_full"
	BulkUserNotFound      BulkItemStatus = "user_not_found"
)

// BulkRegistrationItem is the outcome for one user in a bulk registration.
// swagger:model BulkRegistrationItem
type BulkRegistrationItem struct {
	UserID       string         `json:"user_id"`
	Status       BulkItemStatus `json:"status"`
	Registration *Registration  `json:"registration,omitempty"`
}

// RegistrationService defines the registration flow: capacity reservation,
// ledger creation, token minting, and ticket delivery.
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID string) (*Registration, error)
	// BulkRegister registers each user independently; each item is atomic on
	// its own and failures do not roll back earlier items.
	BulkRegister(ctx context.Context, eventID string, userIDs []string) ([]*BulkRegistrationItem, error)
	Unregister(ctx context.Context, userID, eventID string) error
	GetTicket(ctx context.Context, registrationID string) (string, error)
	ListForEvent(ctx context.Context, eventID string, p PaginationParams) ([]*Registration, int, error)
	ListForUser(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
}
