package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid", "alice", false},
		{"valid with digits and underscore", "alice_42", false},
		{"valid at max length", "a2345678901234567890", false},
		{"too short", "ab", true},
		{"too long", "a23456789012345678901", true},
		{"illegal characters", "alice!", true},
		{"spaces", "alice bob", true},
		{"leading underscore", "_alice", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  Alice "))
	assert.Equal(t, "bob_42", NormalizeUsername("BOB_42"))
}
