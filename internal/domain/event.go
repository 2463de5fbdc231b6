package domain

import (
	"context"
	"time"
)

// Event represents a college event. Event CRUD is owned by an external
// collaborator; this subsystem reads events and mutates only the
// participant counter, through the atomic slot operations below.
// swagger:model Event
type Event struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	Date                time.Time `json:"date"`
	Time                string    `json:"time"`
	Venue               string    `json:"venue"`
	Status              string    `json:"status"`
	MaxParticipants     int       `json:"max_participants"`
	CurrentParticipants int       `json:"current_participants"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// EventRepository defines event lookup and the capacity guard.
//
// ReserveSlot and ReleaseSlot must be single-statement conditional updates:
// the counter check and increment are evaluated and applied atomically in the
// store, never as a read followed by a write.
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	// ReserveSlot increments current_participants only while it is below
	// max_participants. Returns ErrEventFull when the event is at capacity
	// and ErrNotFound when the event does not exist.
	ReserveSlot(ctx context.Context, eventID string) error
	// ReleaseSlot decrements current_participants, floored at zero.
	ReleaseSlot(ctx context.Context, eventID string) error
}
