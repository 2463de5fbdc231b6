package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

type scanLogRepository struct {
	DB *sql.DB
}

func NewScanLogRepository(db *sql.DB) domain.ScanLogRepository {
	return &scanLogRepository{
		DB: db,
	}
}

func (r *scanLogRepository) Append(ctx context.Context, entry *domain.ScanLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	var regID sql.NullString
	if entry.RegistrationID != nil {
		regID = sql.NullString{String: *entry.RegistrationID, Valid: true}
	}
	query := `
		INSERT INTO scan_log (id, registration_id, scanned_by, location, result, scanned_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID, regID, entry.ScannedBy, entry.Location, entry.Result, entry.ScannedAt)
	return err
}

func (r *scanLogRepository) ListByRegistrationID(ctx context.Context, registrationID string) ([]*domain.ScanLogEntry, error) {
	query := `
		SELECT id, registration_id, scanned_by, location, result, scanned_at
		FROM scan_log
		WHERE registration_id = $1
		ORDER BY scanned_at ASC, id ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ScanLogEntry, 0)
	for rows.Next() {
		entry := &domain.ScanLogEntry{}
		var regID sql.NullString
		if err := rows.Scan(&entry.ID, &regID, &entry.ScannedBy, &entry.Location, &entry.Result, &entry.ScannedAt); err != nil {
			return nil, err
		}
		if regID.Valid {
			entry.RegistrationID = &regID.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
