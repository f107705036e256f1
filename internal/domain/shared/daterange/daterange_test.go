package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInclusiveDays(t *testing.T) {
	r, err := Parse("2024-06-01", "2024-06-03")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())
	assert.Equal(t, DayNumber(3), r.Last()-r.First()+1)
}

func TestParseSingleDay(t *testing.T) {
	r, err := Parse("2024-06-01", "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
}

func TestParseInverted(t *testing.T) {
	_, err := Parse("2024-06-03", "2024-06-01")
	assert.ErrorIs(t, err, ErrInverted)
}

func TestParseGarbage(t *testing.T) {
	_, err := Parse("june 1st", "2024-06-03")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDayNumberRoundTrip(t *testing.T) {
	day := DayOf(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC))
	year, month, dom := day.Date()
	assert.Equal(t, 2024, year)
	assert.Equal(t, 5, month) // zero-based months
	assert.Equal(t, 3, dom)
	assert.Equal(t, "2024-06-03", day.String())
}

func TestDayOfIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2024, time.June, 3, 1, 0, 0, 0, time.UTC)
	night := time.Date(2024, time.June, 3, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, DayOf(morning), DayOf(night))
}

func TestRangeAcrossMonthBoundary(t *testing.T) {
	r, err := Parse("2024-01-30", "2024-02-02")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Days())
}

func TestRangeAcrossLeapDay(t *testing.T) {
	r, err := Parse("2024-02-28", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())
}
