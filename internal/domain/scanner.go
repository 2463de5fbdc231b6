package domain

import (
	"context"
	"time"
)

// ScannerDevice is a check-in station (door tablet, handheld scanner) that
// authenticates with a device key instead of a staff bearer token. A device
// may be locked to one event, which scopes every scan it submits.
// swagger:model ScannerDevice
type ScannerDevice struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	EventID   *string   `json:"event_id,omitempty"`
	KeyHash   string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ScannerRepository defines storage operations for scanner devices.
type ScannerRepository interface {
	Create(ctx context.Context, device *ScannerDevice) error
	GetByID(ctx context.Context, id string) (*ScannerDevice, error)
}

// KeyHasher hashes and verifies scanner device keys.
type KeyHasher interface {
	Hash(key string) (string, error)
	Compare(hash, key string) error
}

// ScannerService registers and authenticates scanner devices. The plaintext
// key is returned exactly once, at registration; only its hash is stored.
type ScannerService interface {
	Register(ctx context.Context, name string, eventID *string) (device *ScannerDevice, plainKey string, err error)
	// Authenticate returns ErrUnauthorized for an unknown device or wrong key.
	Authenticate(ctx context.Context, deviceID, key string) (*ScannerDevice, error)
}
