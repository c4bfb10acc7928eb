package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "stableford/pkg/domain-errors"
)

func TestParseDate(t *testing.T) {
	t.Run("accepts ISO calendar date", func(t *testing.T) {
		d, err := ParseDate("2024-06-01")
		require.NoError(t, err)
		assert.Equal(t, NewDate(2024, time.June, 1), d)
		assert.Equal(t, "2024-06-01", d.String())
	})

	t.Run("rejects impossible day", func(t *testing.T) {
		_, err := ParseDate("2024-02-30")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects timestamps", func(t *testing.T) {
		_, err := ParseDate("2024-06-01T10:00:00Z")
		require.Error(t, err)
	})
}

func TestDateOrdering(t *testing.T) {
	jan := NewDate(2024, time.January, 1)
	jun := NewDate(2024, time.June, 1)

	assert.True(t, jan.Before(jun))
	assert.True(t, jun.After(jan))
	assert.Equal(t, -1, jan.Compare(jun))
	assert.Equal(t, 0, jan.Compare(NewDate(2024, time.January, 1)))
	assert.Equal(t, 152, jan.DaysUntil(jun))
	assert.True(t, DateOf(time.Date(2024, time.June, 1, 23, 59, 0, 0, time.UTC)).Equal(jun))
}

func TestDateText(t *testing.T) {
	var d Date
	require.NoError(t, d.UnmarshalText([]byte("2025-01-01")))
	out, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", string(out))
}
