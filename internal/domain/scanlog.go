package domain

import (
	"context"
	"time"
)

// ScanResult classifies the outcome of a single validation attempt.
type ScanResult string

const (
	ScanAccepted         ScanResult = "accepted"
	ScanDuplicate        ScanResult = "duplicate"
	ScanInvalidSignature ScanResult = "invalid-signature"
	ScanExpired          ScanResult = "expired"
	ScanNotFound         ScanResult = "not-found"
	ScanEventMismatch    ScanResult = "event-mismatch"
)

// ScanLogEntry records one validation attempt, accepted or rejected.
// Entries are append-only and never mutated. RegistrationID is nil when the
// token could not be resolved (bad signature, expired before parsing).
// swagger:model ScanLogEntry
type ScanLogEntry struct {
	ID             string     `json:"id"`
	RegistrationID *string    `json:"registration_id"`
	ScannedBy      string     `json:"scanned_by"`
	Location       string     `json:"location"`
	Result         ScanResult `json:"result"`
	ScannedAt      time.Time  `json:"scanned_at"`
}

// ScanLogRepository is the append-only audit trail of validation attempts.
type ScanLogRepository interface {
	Append(ctx context.Context, entry *ScanLogEntry) error
	// ListByRegistrationID returns entries for a registration, oldest first.
	ListByRegistrationID(ctx context.Context, registrationID string) ([]*ScanLogEntry, error)
}
