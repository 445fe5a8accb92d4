package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeStringValidate(t *testing.T) {
	for _, valid := range []string{"00:00", "09:30", "23:59"} {
		assert.NoError(t, TimeString(valid).Validate(), valid)
	}

	for _, invalid := range []string{"", "24:00", "9:30", "10:60", "10:00:00", "abc"} {
		require.ErrorIs(t, TimeString(invalid).Validate(), ErrInvalidTimeString, invalid)
	}
}

func TestTimeStringAt(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	instant, err := TimeString("10:30").At(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC), instant)

	_, err = TimeString("25:00").At(date)
	require.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeStringAddMinutes(t *testing.T) {
	shifted, err := TimeString("10:30").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("11:15"), shifted)
}

func TestTimeStringComparisons(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString

	// Postgres TIME приходит как time.Time
	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 14, 45, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:45"), ts)

	// Или строкой с секундами
	require.NoError(t, ts.Scan("09:15:00"))
	assert.Equal(t, TimeString("09:15"), ts)

	require.NoError(t, ts.Scan([]byte("23:59:59")))
	assert.Equal(t, TimeString("23:59"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	require.Error(t, ts.Scan(42))
}

func TestTimeStringValue(t *testing.T) {
	v, err := TimeString("10:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	require.ErrorIs(t, err, ErrInvalidTimeString)
}
