package booking

import (
	"errors"
	"time"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/users"
)

// MaxLeadTime bounds how far ahead either end of a stay may lie. Policy
// constant, not configuration.
const MaxLeadTime = 90 * 24 * time.Hour

var (
	ErrOwnBooking     = errors.New("booking: hosts cannot book their own listing")
	ErrLeadTime       = errors.New("booking: dates must fall within 90 days from today")
	ErrNoPayoutTarget = errors.New("booking: host has no connected payout wallet")
)

// Quote is a validated booking intent: the calendar with the stay already
// reserved (not yet persisted) and the price for the inclusive day count.
type Quote struct {
	Reserved listings.CalendarIndex
	Days     int
	Total    int64
}

// Validate runs every precondition of a booking in order, each with its
// own failure, and reserves the stay against a copy of the listing's
// calendar. No state is touched; committing the quote is the caller's job.
func Validate(listing *listings.Listing, host *users.User, viewerID string, r daterange.Range, now time.Time) (Quote, error) {
	if listing == nil {
		return Quote{}, listings.ErrNotFound
	}
	if viewerID == listing.HostID {
		return Quote{}, ErrOwnBooking
	}
	horizon := now.UTC().Add(MaxLeadTime)
	if daterange.DayOf(r.CheckIn) > daterange.DayOf(horizon) || daterange.DayOf(r.CheckOut) > daterange.DayOf(horizon) {
		return Quote{}, ErrLeadTime
	}
	if err := r.Validate(); err != nil {
		return Quote{}, err
	}
	reserved, err := listing.Calendar.TryReserve(r)
	if err != nil {
		return Quote{}, err
	}
	if host == nil {
		return Quote{}, users.ErrNotFound
	}
	if !host.HasWallet() {
		return Quote{}, ErrNoPayoutTarget
	}
	days := r.Days()
	return Quote{
		Reserved: reserved,
		Days:     days,
		Total:    listing.Price * int64(days),
	}, nil
}
