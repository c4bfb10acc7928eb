package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "stableford/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParsePlayerID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParsePlayerID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParsePlayerID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParsePlayerID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, PlayerID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	playerID := NewPlayerID()
	roundID := NewRoundID()

	// These would fail to compile if types were interchangeable:
	// var _ PlayerID = roundID   // compile error
	// var _ RoundID = playerID   // compile error

	assert.NotEqual(t, uuid.UUID(playerID), uuid.UUID(roundID))
}

func TestParseID_BoundaryInputs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"SQL injection attempt", "'; DROP TABLE players;--", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRoundID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types have identical parsing behavior.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()
	invalidInputs := []string{"", "invalid", uuid.Nil.String()}

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errPlayer := ParsePlayerID(validUUID)
		_, errRecord := ParseHandicapRecordID(validUUID)
		_, errRound := ParseRoundID(validUUID)
		_, errCourse := ParseCourseID(validUUID)
		_, errTeeSet := ParseTeeSetID(validUUID)

		require.NoError(t, errPlayer)
		require.NoError(t, errRecord)
		require.NoError(t, errRound)
		require.NoError(t, errCourse)
		require.NoError(t, errTeeSet)
	})

	for _, input := range invalidInputs {
		t.Run("all reject: "+input, func(t *testing.T) {
			_, errPlayer := ParsePlayerID(input)
			_, errRecord := ParseHandicapRecordID(input)
			_, errRound := ParseRoundID(input)
			_, errCourse := ParseCourseID(input)
			_, errTeeSet := ParseTeeSetID(input)

			require.Error(t, errPlayer)
			require.Error(t, errRecord)
			require.Error(t, errRound)
			require.Error(t, errCourse)
			require.Error(t, errTeeSet)
		})
	}
}

func TestIDTextRoundTrip(t *testing.T) {
	playerID := NewPlayerID()
	b, err := json.Marshal(struct {
		Player PlayerID `json:"player"`
	}{playerID})
	require.NoError(t, err)
	require.JSONEq(t, `{"player":"`+playerID.String()+`"}`, string(b))

	var decoded struct {
		Player PlayerID `json:"player"`
	}
	require.NoError(t, json.Unmarshal(b, &decoded))
	require.Equal(t, playerID, decoded.Player)
}
