package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundtrip(t *testing.T) {
	hash, err := HashPassword("p@ss1234", DefaultTimeCost)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.NotContains(t, hash, "p@ss1234")

	ok, err := VerifyPassword("p@ss1234", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_SaltIsPerPassword(t *testing.T) {
	first, err := HashPassword("p@ss1234", DefaultTimeCost)
	require.NoError(t, err)
	second, err := HashPassword("p@ss1234", DefaultTimeCost)
	require.NoError(t, err)

	// Same password, different salt, different encoded hash.
	assert.NotEqual(t, first, second)
}

func TestHashPassword_CostEncodedInHash(t *testing.T) {
	hash, err := HashPassword("p@ss1234", 4)
	require.NoError(t, err)
	assert.Contains(t, hash, "t=4")

	// Verification reads the cost from the hash, so a hash minted at one cost
	// still verifies after the configured cost changes.
	ok, err := VerifyPassword("p@ss1234", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPassword_ZeroCostFallsBackToDefault(t *testing.T) {
	hash, err := HashPassword("p@ss1234", 0)
	require.NoError(t, err)
	assert.Contains(t, hash, "t=3")
}

func TestVerifyPassword_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not a phc string", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{"missing sections", "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA"},
		{"bad params", "$argon2id$v=19$garbage$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := VerifyPassword("p@ss1234", tt.hash)
			require.Error(t, err)
			assert.False(t, ok)
		})
	}
}
