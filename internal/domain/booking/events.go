package booking

import (
	"time"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
)

// ListingBooked is the notification addressed to the listing's host after
// a successful commit. Delivery is best-effort; consumers must not rely on
// it for correctness.
type ListingBooked struct {
	BookingID BookingID
	ListingID listings.ListingID
	TenantID  string
	Range     daterange.Range
	At        time.Time
}

func (e ListingBooked) EventName() string     { return "booking.listing_booked" }
func (e ListingBooked) AggregateID() string   { return string(e.ListingID) }
func (e ListingBooked) OccurredAt() time.Time { return e.At }
