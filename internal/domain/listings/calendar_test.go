package listings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/domain/shared/daterange"
)

func mustRange(t *testing.T, checkIn, checkOut string) daterange.Range {
	t.Helper()
	r, err := daterange.Parse(checkIn, checkOut)
	require.NoError(t, err)
	return r
}

func day(t *testing.T, date string) daterange.DayNumber {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return daterange.DayOf(parsed)
}

func TestTryReserveMarksEveryDay(t *testing.T) {
	index := CalendarIndex{}
	reserved, err := index.TryReserve(mustRange(t, "2024-06-01", "2024-06-03"))
	require.NoError(t, err)

	assert.Len(t, reserved, 3)
	for _, d := range []string{"2024-06-01", "2024-06-02", "2024-06-03"} {
		assert.True(t, reserved.Booked(day(t, d)), d)
	}
}

func TestTryReserveRejectsOverlapCitingDay(t *testing.T) {
	index := CalendarIndex{}
	reserved, err := index.TryReserve(mustRange(t, "2024-06-01", "2024-06-03"))
	require.NoError(t, err)

	_, err = reserved.TryReserve(mustRange(t, "2024-06-03", "2024-06-05"))
	var overlap *OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, day(t, "2024-06-03"), overlap.Day)
}

func TestTryReserveNeverMutatesReceiver(t *testing.T) {
	index := CalendarIndex{day(t, "2024-06-05"): true}

	// success path: result discarded, original untouched
	_, err := index.TryReserve(mustRange(t, "2024-06-01", "2024-06-02"))
	require.NoError(t, err)
	assert.Len(t, index, 1)

	// failure path: partial walk must not leak into the original
	_, err = index.TryReserve(mustRange(t, "2024-06-03", "2024-06-07"))
	require.Error(t, err)
	assert.Len(t, index, 1)
	assert.False(t, index.Booked(day(t, "2024-06-03")))
	assert.False(t, index.Booked(day(t, "2024-06-04")))
}

func TestTryReserveAdjacentRangesDoNotConflict(t *testing.T) {
	index := CalendarIndex{}
	first, err := index.TryReserve(mustRange(t, "2024-06-01", "2024-06-03"))
	require.NoError(t, err)

	second, err := first.TryReserve(mustRange(t, "2024-06-04", "2024-06-06"))
	require.NoError(t, err)
	assert.Len(t, second, 6)
}

func TestYearView(t *testing.T) {
	index := CalendarIndex{}
	reserved, err := index.TryReserve(mustRange(t, "2024-06-29", "2024-07-02"))
	require.NoError(t, err)

	view := reserved.YearView()
	require.Contains(t, view, 2024)
	assert.Equal(t, []int{29, 30}, view[2024][5])
	assert.Equal(t, []int{1, 2}, view[2024][6])
}
