package domain

import "context"

// ScanRequest is a single attempt to redeem a token for check-in, whether
// camera-decoded or pasted manually (same format either way).
type ScanRequest struct {
	Token string
	// ExpectedEventID scopes the scan to one event (e.g. a scanner locked to
	// an event). Empty means any event.
	ExpectedEventID string
	ScannedBy       string
	Location        string
}

// ScanDecision is the structured outcome of a validation attempt. Rejections
// are decisions, not errors: Valid is false and Reason carries the cause.
// swagger:model ScanDecision
type ScanDecision struct {
	Valid bool `json:"valid"`
	// Reason is set on rejection: duplicate, invalid-signature, expired,
	// not-found, or event-mismatch.
	Reason       ScanResult    `json:"reason,omitempty"`
	Registration *Registration `json:"registration,omitempty"`
	User         *User         `json:"user,omitempty"`
	Event        *Event        `json:"event,omitempty"`
	LogEntry     *ScanLogEntry `json:"scan_log_entry,omitempty"`
}

// ValidationService decides accept/reject for a scanned token and performs
// the attendance transition plus audit logging. It returns an error only for
// unexpected storage failures; every expected condition is a ScanDecision.
type ValidationService interface {
	ValidateScan(ctx context.Context, req ScanRequest) (*ScanDecision, error)
}
