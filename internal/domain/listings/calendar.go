package listings

import (
	"fmt"
	"sort"

	"homestay/internal/domain/shared/daterange"
)

// CalendarIndex is the sparse set of booked days for one listing, keyed by
// epoch day number. Presence means booked; absent days are free. No false
// entries are ever stored.
type CalendarIndex map[daterange.DayNumber]bool

// OverlapError reports the first already-booked day hit while reserving.
type OverlapError struct {
	Day daterange.DayNumber
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("calendar: %s is already booked", e.Day)
}

// Booked reports whether the given day is taken.
func (c CalendarIndex) Booked(day daterange.DayNumber) bool {
	return c[day]
}

// Clone returns an independent copy of the index.
func (c CalendarIndex) Clone() CalendarIndex {
	out := make(CalendarIndex, len(c))
	for day := range c {
		out[day] = true
	}
	return out
}

// TryReserve walks every day of r inclusive and returns a new index with
// those days marked booked. The first collision aborts the whole
// reservation with *OverlapError; the receiver is never mutated, so a
// discarded result leaves no trace.
func (c CalendarIndex) TryReserve(r daterange.Range) (CalendarIndex, error) {
	out := c.Clone()
	for day := r.First(); day <= r.Last(); day++ {
		if out[day] {
			return nil, &OverlapError{Day: day}
		}
		out[day] = true
	}
	return out, nil
}

// YearView regroups the flat index into year -> month (0-based) -> day for
// calendar rendering.
func (c CalendarIndex) YearView() map[int]map[int][]int {
	out := make(map[int]map[int][]int)
	for day := range c {
		year, month, dom := day.Date()
		months, ok := out[year]
		if !ok {
			months = make(map[int][]int)
			out[year] = months
		}
		months[month] = append(months[month], dom)
	}
	for _, months := range out {
		for _, days := range months {
			sort.Ints(days)
		}
	}
	return out
}
