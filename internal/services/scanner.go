package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
)

type scannerService struct {
	repo   domain.ScannerRepository
	hasher domain.KeyHasher
}

// NewScannerService creates a ScannerService.
func NewScannerService(repo domain.ScannerRepository, hasher domain.KeyHasher) domain.ScannerService {
	return &scannerService{repo: repo, hasher: hasher}
}

// Register creates a scanner device and returns the plaintext key exactly
// once; only the bcrypt hash is stored.
func (s *scannerService) Register(ctx context.Context, name string, eventID *string) (*domain.ScannerDevice, string, error) {
	keyBytes := make([]byte, 32)
	if _, err := rand.Read(keyBytes); err != nil {
		return nil, "", fmt.Errorf("generate device key: %w", err)
	}
	plainKey := hex.EncodeToString(keyBytes)

	keyHash, err := s.hasher.Hash(plainKey)
	if err != nil {
		return nil, "", fmt.Errorf("hash device key: %w", err)
	}

	device := &domain.ScannerDevice{
		Name:      name,
		EventID:   eventID,
		KeyHash:   keyHash,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, device); err != nil {
		return nil, "", fmt.Errorf("create scanner device: %w", err)
	}
	return device, plainKey, nil
}

func (s *scannerService) Authenticate(ctx context.Context, deviceID, key string) (*domain.ScannerDevice, error) {
	device, err := s.repo.GetByID(ctx, deviceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("get scanner device: %w", err)
	}
	if err := s.hasher.Compare(device.KeyHash, key); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return device, nil
}
