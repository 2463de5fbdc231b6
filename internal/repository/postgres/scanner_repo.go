package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

type scannerRepository struct {
	DB *sql.DB
}

func NewScannerRepository(db *sql.DB) domain.ScannerRepository {
	return &scannerRepository{
		DB: db,
	}
}

func (r *scannerRepository) Create(ctx context.Context, device *domain.ScannerDevice) error {
	if device.ID == "" {
		device.ID = uuid.NewString()
	}
	var eventID sql.NullString
	if device.EventID != nil {
		eventID = sql.NullString{String: *device.EventID, Valid: true}
	}
	query := `
		INSERT INTO scanner_devices (id, name, event_id, key_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.DB.ExecContext(ctx, query, device.ID, device.Name, eventID, device.KeyHash, device.CreatedAt)
	return err
}

func (r *scannerRepository) GetByID(ctx context.Context, id string) (*domain.ScannerDevice, error) {
	query := `
		SELECT id, name, event_id, key_hash, created_at
		FROM scanner_devices
		WHERE id = $1
	`
	d := &domain.ScannerDevice{}
	var eventID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.Name, &eventID, &d.KeyHash, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if eventID.Valid {
		d.EventID = &eventID.String
	}
	return d, nil
}
