package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeValidationService implements domain.ValidationService for handler tests.
type fakeValidationService struct {
	decision *domain.ScanDecision
	err      error
	lastReq  domain.ScanRequest
}

func (f *fakeValidationService) ValidateScan(_ context.Context, req domain.ScanRequest) (*domain.ScanDecision, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.decision, nil
}

// fakeScanLogRepo implements domain.ScanLogRepository for handler tests.
type fakeScanLogRepo struct {
	entries []*domain.ScanLogEntry
	listErr error
	lastID  string
}

func (f *fakeScanLogRepo) Append(_ context.Context, _ *domain.ScanLogEntry) error {
	return errors.New("not used in controller tests")
}

func (f *fakeScanLogRepo) ListByRegistrationID(_ context.Context, registrationID string) ([]*domain.ScanLogEntry, error) {
	f.lastID = registrationID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.entries, nil
}

func TestScanController_ValidateScan(t *testing.T) {
	accepted := &domain.ScanDecision{
		Valid:        true,
		Registration: &domain.Registration{ID: testRegID, Status: domain.StatusAttended},
		User:         &domain.User{ID: testUserID, Name: "Dana"},
		Event:        &domain.Event{ID: testEventID, Title: "Tech Talk"},
	}
	duplicate := &domain.ScanDecision{Valid: false, Reason: domain.ScanDuplicate}

	tests := []struct {
		name           string
		body           string
		actor          *middleware.ScanActor
		decision       *domain.ScanDecision
		fakeErr        error
		wantStatus     int
		wantValid      bool
		wantReason     domain.ScanResult
		wantEventScope string
		wantScannedBy  string
		wantBodySubstr string
	}{
		{
			name:          "accepted scan",
			body:          `{"token":"payload.sig","location":"main entrance"}`,
			actor:         &middleware.ScanActor{Name: "staff-1"},
			decision:      accepted,
			wantStatus:    http.StatusOK,
			wantValid:     true,
			wantScannedBy: "staff-1",
		},
		{
			name:       "duplicate rejection still returns 200",
			body:       `{"token":"payload.sig"}`,
			actor:      &middleware.ScanActor{Name: "staff-1"},
			decision:   duplicate,
			wantStatus: http.StatusOK,
			wantValid:  false,
			wantReason: domain.ScanDuplicate,
		},
		{
			name:           "request event scope forwarded",
			body:           `{"token":"payload.sig","event_id":"` + testEventID + `"}`,
			actor:          &middleware.ScanActor{Name: "staff-1"},
			decision:       accepted,
			wantStatus:     http.StatusOK,
			wantValid:      true,
			wantEventScope: testEventID,
		},
		{
			name:           "device lock overrides request event scope",
			body:           `{"token":"payload.sig","event_id":"` + testRegID + `"}`,
			actor:          &middleware.ScanActor{Name: "hall-a", LockedEventID: testEventID},
			decision:       accepted,
			wantStatus:     http.StatusOK,
			wantValid:      true,
			wantEventScope: testEventID,
			wantScannedBy:  "hall-a",
		},
		{
			name:           "missing token",
			body:           `{"location":"door"}`,
			actor:          &middleware.ScanActor{Name: "staff-1"},
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "token is required",
		},
		{
			name:           "no actor in context",
			body:           `{"token":"payload.sig"}`,
			actor:          nil,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "storage failure is an internal error",
			body:           `{"token":"payload.sig"}`,
			actor:          &middleware.ScanActor{Name: "staff-1"},
			fakeErr:        errors.New("db down"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeValidationService{decision: tt.decision, err: tt.fakeErr}
			ctrl := NewScanController(testLogger, fake, &fakeScanLogRepo{})
			req := httptest.NewRequest(http.MethodPost, "/scans/validate", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.actor != nil {
				req = req.WithContext(middleware.SetScanActor(req.Context(), *tt.actor))
			}
			rr := httptest.NewRecorder()

			ctrl.ValidateScan(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus != http.StatusOK {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
				return
			}
			require.Nil(t, envelope.Error)
			dataBytes, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			var decision domain.ScanDecision
			require.NoError(t, json.Unmarshal(dataBytes, &decision))
			assert.Equal(t, tt.wantValid, decision.Valid)
			assert.Equal(t, tt.wantReason, decision.Reason)
			if tt.wantEventScope != "" {
				assert.Equal(t, tt.wantEventScope, fake.lastReq.ExpectedEventID)
			}
			if tt.wantScannedBy != "" {
				assert.Equal(t, tt.wantScannedBy, fake.lastReq.ScannedBy)
			}
		})
	}
}

func TestScanController_ListRegistrationScans(t *testing.T) {
	regID := testRegID
	entries := []*domain.ScanLogEntry{
		{ID: "s1", RegistrationID: &regID, ScannedBy: "staff-1", Result: domain.ScanAccepted, ScannedAt: time.Now()},
		{ID: "s2", RegistrationID: &regID, ScannedBy: "staff-2", Result: domain.ScanDuplicate, ScannedAt: time.Now()},
	}

	tests := []struct {
		name           string
		registrationID string
		fakeErr        error
		wantStatus     int
		wantCount      int
	}{
		{name: "returns audit trail", registrationID: testRegID, wantStatus: http.StatusOK, wantCount: 2},
		{name: "missing registrationID", registrationID: "", wantStatus: http.StatusBadRequest},
		{name: "storage error", registrationID: testRegID, fakeErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeScanLogRepo{entries: entries, listErr: tt.fakeErr}
			ctrl := NewScanController(testLogger, &fakeValidationService{}, repo)
			req := httptest.NewRequest(http.MethodGet, "/registrations/"+tt.registrationID+"/scans", nil)
			req.SetPathValue("registrationID", tt.registrationID)
			req = req.WithContext(middleware.SetUserID(req.Context(), "staff-1"))
			rr := httptest.NewRecorder()

			ctrl.ListRegistrationScans(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus != http.StatusOK {
				return
			}
			assert.Equal(t, testRegID, repo.lastID)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			require.Nil(t, envelope.Error)
			dataBytes, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			var got []*domain.ScanLogEntry
			require.NoError(t, json.Unmarshal(dataBytes, &got))
			assert.Len(t, got, tt.wantCount)
		})
	}
}
