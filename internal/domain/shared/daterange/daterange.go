package daterange

import (
	"errors"
	"time"
)

var (
	ErrInverted    = errors.New("daterange: check-out precedes check-in")
	ErrInvalidDate = errors.New("daterange: invalid calendar date")
)

const millisPerDay = 24 * 60 * 60 * 1000

// DayNumber is a UTC calendar day counted from the Unix epoch. It is the
// composite key for calendar lookups: one integer instead of a nested
// year/month/day structure, while staying just as sparse.
type DayNumber int32

// DayOf truncates t to its UTC calendar day. Stepping between consecutive
// DayNumbers is exact 24h arithmetic, so a walk over a range can never
// drift the way local-time AddDate can around DST transitions.
func DayOf(t time.Time) DayNumber {
	return DayNumber(t.UTC().UnixMilli() / millisPerDay)
}

// Time returns midnight UTC of the day.
func (d DayNumber) Time() time.Time {
	return time.UnixMilli(int64(d) * millisPerDay).UTC()
}

// Date splits the day into calendar components. Month is zero-based
// (0 = January) to match the calendar index wire format.
func (d DayNumber) Date() (year, month, day int) {
	t := d.Time()
	return t.Year(), int(t.Month()) - 1, t.Day()
}

func (d DayNumber) String() string {
	return d.Time().Format("2006-01-02")
}

// Range is an inclusive pair of UTC calendar days. Both bounds are booked
// nights: a one-night stay has CheckIn == CheckOut.
type Range struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// New normalizes both bounds to UTC and rejects inverted ranges.
func New(checkIn, checkOut time.Time) (Range, error) {
	r := Range{CheckIn: checkIn.UTC(), CheckOut: checkOut.UTC()}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Parse builds a Range from ISO calendar date strings (2006-01-02).
func Parse(checkIn, checkOut string) (Range, error) {
	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return Range{}, ErrInvalidDate
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return Range{}, ErrInvalidDate
	}
	return New(in, out)
}

func (r Range) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() {
		return ErrInvalidDate
	}
	if r.Last() < r.First() {
		return ErrInverted
	}
	return nil
}

// First and Last bound the inclusive day walk.
func (r Range) First() DayNumber { return DayOf(r.CheckIn) }
func (r Range) Last() DayNumber  { return DayOf(r.CheckOut) }

// Days is the inclusive day count, the multiplier for the nightly price.
func (r Range) Days() int {
	return int(r.Last()-r.First()) + 1
}
