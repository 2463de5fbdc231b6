package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBcryptKeyHasher_HashAndCompare(t *testing.T) {
	hasher := NewBcryptKeyHasher(4) // min cost for test speed

	hash, err := hasher.Hash("device-key-1")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	require.NoError(t, hasher.Compare(hash, "device-key-1"))
	require.Error(t, hasher.Compare(hash, "device-key-2"))
}

func TestBcryptKeyHasher_LongKey(t *testing.T) {
	hasher := NewBcryptKeyHasher(4)

	// Keys beyond bcrypt's 72-byte input limit still hash and verify.
	long := strings.Repeat("k", 200)
	hash, err := hasher.Hash(long)
	require.NoError(t, err)
	require.NoError(t, hasher.Compare(hash, long))
	require.Error(t, hasher.Compare(hash, long+"x"))
}
