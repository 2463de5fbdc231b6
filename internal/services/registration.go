// Package services holds the business logic between the HTTP layer and the
// repositories: the registration flow and the scan validation engine.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

type registrationService struct {
	eventRepo domain.EventRepository
	userRepo  domain.UserRepository
	regRepo   domain.RegistrationRepository
	codec     domain.TokenCodec
	emailSvc  domain.EmailService
	logger    *slog.Logger
}

// NewRegistrationService creates a RegistrationService.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	regRepo domain.RegistrationRepository,
	codec domain.TokenCodec,
	emailSvc domain.EmailService,
	logger *slog.Logger,
) domain.RegistrationService {
	return &registrationService{
		eventRepo: eventRepo,
		userRepo:  userRepo,
		regRepo:   regRepo,
		codec:     codec,
		emailSvc:  emailSvc,
		logger:    logger,
	}
}

// Register reserves a capacity slot, creates the ledger entry with a freshly
// minted token, and sends the ticket email. The slot reservation and the
// ledger insert are each single atomic operations; if the insert fails the
// reserved slot is released, so the counter never drifts from the number of
// live registrations.
func (s *registrationService) Register(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Fast-path duplicate check. The unique constraint on the ledger is the
	// authoritative guard; this avoids burning a slot reservation for the
	// common repeat-click case.
	if _, err := s.regRepo.GetByUserAndEvent(ctx, userID, eventID); err == nil {
		return nil, domain.ErrAlreadyRegistered
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	if err := s.eventRepo.ReserveSlot(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrEventFull) {
			return nil, err
		}
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	now := time.Now().UTC()
	reg := domain.NewRegistration(userID, eventID, now)
	reg.ID = uuid.NewString()

	token, err := s.codec.Mint(domain.TokenPayload{
		RegistrationID: reg.ID,
		UserID:         userID,
		EventID:        eventID,
		IssuedAt:       now.Unix(),
	})
	if err != nil {
		s.releaseSlot(ctx, eventID)
		return nil, fmt.Errorf("mint token: %w", err)
	}
	reg.Token = token

	if err := s.regRepo.Create(ctx, reg); err != nil {
		s.releaseSlot(ctx, eventID)
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	s.sendTicket(ctx, user, reg)
	return reg, nil
}

func (s *registrationService) BulkRegister(ctx context.Context, eventID string, userIDs []string) ([]*domain.BulkRegistrationItem, error) {
	items := make([]*domain.BulkRegistrationItem, 0, len(userIDs))
	for _, userID := range userIDs {
		reg, err := s.Register(ctx, userID, eventID)
		switch {
		case err == nil:
			items = append(items, &domain.BulkRegistrationItem{
				UserID: userID, Status: domain.BulkCreated, Registration: reg,
			})
		case errors.Is(err, domain.ErrAlreadyRegistered):
			items = append(items, &domain.BulkRegistrationItem{
				UserID: userID, Status: domain.BulkAlreadyRegistered,
			})
		case errors.Is(err, domain.ErrEventFull):
			items = append(items, &domain.BulkRegistrationItem{
				UserID: userID, Status: domain.BulkEventFull,
			})
		case errors.Is(err, domain.ErrUserNotFound):
			items = append(items, &domain.BulkRegistrationItem{
				UserID: userID, Status: domain.BulkUserNotFound,
			})
		case errors.Is(err, domain.ErrNotFound):
			// The event itself is missing; fail the whole call.
			return nil, err
		default:
			return nil, fmt.Errorf("register user %s: %w", userID, err)
		}
	}
	return items, nil
}

func (s *registrationService) Unregister(ctx context.Context, userID, eventID string) error {
	reg, err := s.regRepo.GetByUserAndEvent(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get registration: %w", err)
	}
	if err := s.regRepo.Delete(ctx, reg.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// A concurrent unregister already removed it (and released the slot).
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete registration: %w", err)
	}
	s.releaseSlot(ctx, eventID)
	return nil
}

func (s *registrationService) GetTicket(ctx context.Context, registrationID string) (string, error) {
	reg, err := s.regRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get registration: %w", err)
	}
	return reg.Token, nil
}

func (s *registrationService) ListForEvent(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	regs, total, err := s.regRepo.ListByEventID(ctx, eventID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

func (s *registrationService) ListForUser(ctx context.Context, userID string) ([]*domain.RegistrationWithEvent, error) {
	regs, err := s.regRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.RegistrationWithEvent, 0, len(regs))
	for _, reg := range regs {
		ev, ok := eventsByID[reg.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, reg.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but registration remains; skip the entry.
					continue
				}
				return nil, fmt.Errorf("get event for registration: %w", err)
			}
			eventsByID[reg.EventID] = ev
		}
		result = append(result, &domain.RegistrationWithEvent{Registration: reg, Event: ev})
	}
	return result, nil
}

// releaseSlot compensates a reservation after a failed insert or a deletion.
// Failures are surfaced to operators via the log; the caller's outcome stands.
func (s *registrationService) releaseSlot(ctx context.Context, eventID string) {
	if err := s.eventRepo.ReleaseSlot(ctx, eventID); err != nil {
		s.logger.ErrorContext(ctx, "failed to release capacity slot", "event_id", eventID, "err", err)
	}
}

func (s *registrationService) sendTicket(ctx context.Context, user *domain.User, reg *domain.Registration) {
	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		s.logger.WarnContext(ctx, "skipping ticket email, event lookup failed", "event_id", reg.EventID, "err", err)
		return
	}
	data := &domain.TicketEmailData{
		Name:       user.Name,
		EventTitle: event.Title,
		EventDate:  event.Date.Format("Monday, 2 January 2006"),
		EventTime:  event.Time,
		EventVenue: event.Venue,
		Token:      reg.Token,
	}
	if err := s.emailSvc.SendTicket(ctx, user.Email, data); err != nil {
		s.logger.WarnContext(ctx, "ticket email failed", "registration_id", reg.ID, "err", err)
	}
}
