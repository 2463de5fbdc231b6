package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func testRegistration() *domain.Registration {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	return &domain.Registration{
		ID:           "reg-1",
		UserID:       "user-1",
		EventID:      "ev-1",
		Token:        "payload.signature",
		Status:       domain.StatusRegistered,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations`).
					WithArgs("reg-1", "user-1", "ev-1", "payload.signature",
						domain.StatusRegistered, sqlmock.AnyArg(), sqlmock.AnyArg()).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate user and event",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "registrations_user_event_unique"})
			},
			wantErr: domain.ErrAlreadyRegistered,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			err = repo.Create(ctx, testRegistration())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_Create_GeneratesID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO registrations`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	reg := testRegistration()
	reg.ID = ""
	repo := NewRegistrationRepository(db)
	require.NoError(t, repo.Create(context.Background(), reg))
	require.NotEmpty(t, reg.ID)
}

func TestRegistrationRepository_GetByUserAndEvent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, user_id, event_id, token, status, registered_at, updated_at`).
			WithArgs("user-1", "ev-1").
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "user_id", "event_id", "token", "status", "registered_at", "updated_at",
			}).AddRow("reg-1", "user-1", "ev-1", "tok", "registered", now, now))

		repo := NewRegistrationRepository(db)
		got, err := repo.GetByUserAndEvent(ctx, "user-1", "ev-1")
		require.NoError(t, err)
		require.Equal(t, "reg-1", got.ID)
		require.Equal(t, domain.StatusRegistered, got.Status)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, user_id, event_id, token`).
			WithArgs("user-1", "ev-1").
			WillReturnError(sql.ErrNoRows)

		repo := NewRegistrationRepository(db)
		_, err = repo.GetByUserAndEvent(ctx, "user-1", "ev-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegistrationRepository_MarkAttended(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantWon bool
		wantErr error
	}{
		{
			name: "won the transition",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations`).
					WithArgs(domain.StatusAttended, "reg-1", domain.StatusRegistered).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
			wantWon: true,
		},
		{
			name: "already attended",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations`).
					WithArgs(domain.StatusAttended, "reg-1", domain.StatusRegistered).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("reg-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantWon: false,
		},
		{
			name: "registration missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations`).
					WithArgs(domain.StatusAttended, "reg-1", domain.StatusRegistered).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs("reg-1").
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			won, err := repo.MarkAttended(ctx, "reg-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantWon, won)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT id, user_id, event_id, token, status, registered_at, updated_at`).
		WithArgs("ev-1", 2, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "event_id", "token", "status", "registered_at", "updated_at",
		}).
			AddRow("reg-1", "user-1", "ev-1", "tok1", "registered", now, now).
			AddRow("reg-2", "user-2", "ev-1", "tok2", "attended", now, now))

	repo := NewRegistrationRepository(db)
	regs, total, err := repo.ListByEventID(ctx, "ev-1", domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	require.Len(t, regs, 2)
	require.Equal(t, domain.StatusAttended, regs[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM registrations`).
			WithArgs("reg-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.Delete(ctx, "reg-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM registrations`).
			WithArgs("reg-missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRegistrationRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "reg-missing"), domain.ErrNotFound)
	})
}
