package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

// In-memory fakes shared by the service tests. The event and registration
// fakes apply their conditional updates under a mutex, mirroring the
// single-statement atomicity the postgres layer provides, so the concurrency
// tests exercise the same interleavings the real store allows.

type memEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	getErr error
}

func newMemEventRepo(events ...*domain.Event) *memEventRepo {
	m := &memEventRepo{events: make(map[string]*domain.Event)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *memEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (m *memEventRepo) ReserveSlot(ctx context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if e.CurrentParticipants >= e.MaxParticipants {
		return domain.ErrEventFull
	}
	e.CurrentParticipants++
	return nil
}

func (m *memEventRepo) ReleaseSlot(ctx context.Context, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	if e.CurrentParticipants > 0 {
		e.CurrentParticipants--
	}
	return nil
}

func (m *memEventRepo) current(eventID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[eventID].CurrentParticipants
}

type memRegistrationRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.Registration
	createErr error
}

func newMemRegistrationRepo(regs ...*domain.Registration) *memRegistrationRepo {
	m := &memRegistrationRepo{byID: make(map[string]*domain.Registration)}
	for _, r := range regs {
		m.byID[r.ID] = r
	}
	return m
}

func (m *memRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.UserID == reg.UserID && existing.EventID == reg.EventID {
			return domain.ErrAlreadyRegistered
		}
	}
	if reg.ID == "" {
		reg.ID = uuid.NewString()
	}
	copied := *reg
	m.byID[reg.ID] = &copied
	return nil
}

func (m *memRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *reg
	return &copied, nil
}

func (m *memRegistrationRepo) GetByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, reg := range m.byID {
		if reg.UserID == userID && reg.EventID == eventID {
			copied := *reg
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memRegistrationRepo) ListByEventID(ctx context.Context, eventID string, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	regs := make([]*domain.Registration, 0)
	for _, reg := range m.byID {
		if reg.EventID == eventID {
			copied := *reg
			regs = append(regs, &copied)
		}
	}
	return regs, len(regs), nil
}

func (m *memRegistrationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	regs := make([]*domain.Registration, 0)
	for _, reg := range m.byID {
		if reg.UserID == userID {
			copied := *reg
			regs = append(regs, &copied)
		}
	}
	return regs, nil
}

// MarkAttended mirrors the conditional UPDATE: check-and-set under one lock.
func (m *memRegistrationRepo) MarkAttended(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.byID[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if reg.Status != domain.StatusRegistered {
		return false, nil
	}
	reg.Status = domain.StatusAttended
	reg.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (m *memRegistrationRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memRegistrationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memScanLogRepo struct {
	mu        sync.Mutex
	entries   []*domain.ScanLogEntry
	appendErr error
	listErr   error
}

func (m *memScanLogRepo) Append(ctx context.Context, entry *domain.ScanLogEntry) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	copied := *entry
	m.entries = append(m.entries, &copied)
	return nil
}

func (m *memScanLogRepo) ListByRegistrationID(ctx context.Context, registrationID string) ([]*domain.ScanLogEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]*domain.ScanLogEntry, 0)
	for _, e := range m.entries {
		if e.RegistrationID != nil && *e.RegistrationID == registrationID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *memScanLogRepo) all() []*domain.ScanLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.ScanLogEntry(nil), m.entries...)
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type stubEmailService struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (s *stubEmailService) SendTicket(ctx context.Context, to string, data *domain.TicketEmailData) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, to)
	return nil
}

type stubCodec struct {
	minted    string
	mintErr   error
	payload   *domain.TokenPayload
	decodeErr error
}

func (s *stubCodec) Mint(payload domain.TokenPayload) (string, error) {
	if s.mintErr != nil {
		return "", s.mintErr
	}
	if s.minted != "" {
		return s.minted, nil
	}
	return "tok-" + payload.RegistrationID, nil
}

func (s *stubCodec) Decode(token string) (*domain.TokenPayload, error) {
	if s.decodeErr != nil {
		return nil, s.decodeErr
	}
	return s.payload, nil
}
