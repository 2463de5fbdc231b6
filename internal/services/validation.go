package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

type validationService struct {
	codec     domain.TokenCodec
	regRepo   domain.RegistrationRepository
	eventRepo domain.EventRepository
	userRepo  domain.UserRepository
	scanRepo  domain.ScanLogRepository
	logger    *slog.Logger
	now       func() time.Time
}

// NewValidationService creates the scan validation engine.
func NewValidationService(
	codec domain.TokenCodec,
	regRepo domain.RegistrationRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	scanRepo domain.ScanLogRepository,
	logger *slog.Logger,
) domain.ValidationService {
	return &validationService{
		codec:     codec,
		regRepo:   regRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		scanRepo:  scanRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// ValidateScan runs the check-in pipeline: decode the token, resolve the
// registration, check the event scope, reject replays, then commit the
// attendance transition. Every outcome, accepted or rejected, is appended to
// the scan log. Only unexpected storage failures return an error.
func (s *validationService) ValidateScan(ctx context.Context, req domain.ScanRequest) (*domain.ScanDecision, error) {
	// Step 1: decode. Garbage, forged, and malformed input all land here.
	payload, err := s.codec.Decode(req.Token)
	if err != nil {
		reason := domain.ScanInvalidSignature
		if errors.Is(err, domain.ErrTokenExpired) {
			reason = domain.ScanExpired
		}
		return s.reject(ctx, req, reason, nil), nil
	}

	// Step 2: resolve the ledger entry.
	reg, err := s.regRepo.GetByID(ctx, payload.RegistrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return s.reject(ctx, req, domain.ScanNotFound, &payload.RegistrationID), nil
		}
		return nil, fmt.Errorf("resolve registration: %w", err)
	}

	// Step 3: scope check for scanners locked to one event.
	if req.ExpectedEventID != "" && req.ExpectedEventID != reg.EventID {
		return s.reject(ctx, req, domain.ScanEventMismatch, &reg.ID), nil
	}

	// Step 4: duplicate check. The status field is the fast signal; the scan
	// log is the authoritative audit record and also catches a registration
	// whose status was reset externally after an accepted scan.
	if reg.Status != domain.StatusRegistered {
		return s.reject(ctx, req, domain.ScanDuplicate, &reg.ID), nil
	}
	if prior, err := s.scanRepo.ListByRegistrationID(ctx, reg.ID); err != nil {
		// The conditional transition below still guarantees single-use;
		// losing the log pre-check only weakens the reset-detection signal.
		s.logger.WarnContext(ctx, "scan log lookup failed, relying on status transition", "registration_id", reg.ID, "err", err)
	} else {
		for _, entry := range prior {
			if entry.Result == domain.ScanAccepted {
				return s.reject(ctx, req, domain.ScanDuplicate, &reg.ID), nil
			}
		}
	}

	// Step 5: commit. The conditional update is the tie-breaker: of any
	// concurrent scans of this token, exactly one observes 'registered'.
	won, err := s.regRepo.MarkAttended(ctx, reg.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Unregistered between resolve and commit.
			return s.reject(ctx, req, domain.ScanNotFound, &reg.ID), nil
		}
		return nil, fmt.Errorf("mark attended: %w", err)
	}
	if !won {
		return s.reject(ctx, req, domain.ScanDuplicate, &reg.ID), nil
	}
	reg.Status = domain.StatusAttended
	reg.UpdatedAt = s.now().UTC()

	decision := &domain.ScanDecision{
		Valid:        true,
		Registration: reg,
		LogEntry:     s.append(ctx, req, domain.ScanAccepted, &reg.ID),
	}

	// Joined display fields are best-effort; the accept stands without them.
	if user, err := s.userRepo.GetByID(ctx, reg.UserID); err == nil {
		decision.User = user
	} else {
		s.logger.WarnContext(ctx, "user lookup for scan result failed", "user_id", reg.UserID, "err", err)
	}
	if event, err := s.eventRepo.GetByID(ctx, reg.EventID); err == nil {
		decision.Event = event
	} else {
		s.logger.WarnContext(ctx, "event lookup for scan result failed", "event_id", reg.EventID, "err", err)
	}
	return decision, nil
}

func (s *validationService) reject(ctx context.Context, req domain.ScanRequest, reason domain.ScanResult, regID *string) *domain.ScanDecision {
	return &domain.ScanDecision{
		Valid:    false,
		Reason:   reason,
		LogEntry: s.append(ctx, req, reason, regID),
	}
}

// append records the attempt in the audit trail. A log write failure must
// not block or reverse the decision, so it is only surfaced to operators.
func (s *validationService) append(ctx context.Context, req domain.ScanRequest, result domain.ScanResult, regID *string) *domain.ScanLogEntry {
	entry := &domain.ScanLogEntry{
		RegistrationID: regID,
		ScannedBy:      req.ScannedBy,
		Location:       req.Location,
		Result:         result,
		ScannedAt:      s.now().UTC(),
	}
	if err := s.scanRepo.Append(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "scan log append failed", "result", result, "err", err)
		return nil
	}
	return entry
}
