package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"eventhub/internal/domain"
)

type bcryptKeyHasher struct {
	cost int
}

// NewBcryptKeyHasher returns a KeyHasher for scanner device keys. The key is
// pre-hashed with SHA256 so inputs longer than bcrypt's 72-byte limit are
// handled uniformly.
func NewBcryptKeyHasher(cost int) domain.KeyHasher {
	return &bcryptKeyHasher{cost: cost}
}

func (h *bcryptKeyHasher) Hash(key string) (string, error) {
	sum := sha256.Sum256([]byte(key))
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(sum[:])), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash key: %w", err)
	}
	return string(hash), nil
}

func (h *bcryptKeyHasher) Compare(hash, key string) error {
	sum := sha256.Sum256([]byte(key))
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(sum[:])))
}
