package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventhub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, title, date, time, venue, status, max_participants, current_participants, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Title, &e.Date, &e.Time, &e.Venue, &e.Status,
		&e.MaxParticipants, &e.CurrentParticipants, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ReserveSlot increments the participant counter with a single conditional
// UPDATE, so the capacity check and the increment are one atomic operation.
// A read-then-write pair here would overbook under concurrent registrations.
func (r *eventRepository) ReserveSlot(ctx context.Context, eventID string) error {
	query := `
		UPDATE events
		SET current_participants = current_participants + 1, updated_at = NOW()
		WHERE id = $1 AND current_participants < max_participants
	`
	result, err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("reserve slot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve slot rows affected: %w", err)
	}
	if rows == 1 {
		return nil
	}

	// No row matched: the event is either full or missing.
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return fmt.Errorf("check event exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrEventFull
}

// ReleaseSlot decrements the participant counter, floored at zero. Missing
// events report ErrNotFound; an already-zero counter is not an error.
func (r *eventRepository) ReleaseSlot(ctx context.Context, eventID string) error {
	query := `
		UPDATE events
		SET current_participants = current_participants - 1, updated_at = NOW()
		WHERE id = $1 AND current_participants > 0
	`
	result, err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("release slot rows affected: %w", err)
	}
	if rows == 1 {
		return nil
	}

	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, eventID).Scan(&exists); err != nil {
		return fmt.Errorf("check event exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return nil
}
