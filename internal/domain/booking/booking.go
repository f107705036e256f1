package booking

import (
	"context"
	"errors"
	"time"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/shared/events"
)

var ErrBookingNotFound = errors.New("booking: not found")

type BookingID string

// Booking is immutable once committed; there is no update or cancel path.
type Booking struct {
	ID        BookingID
	ListingID listings.ListingID
	TenantID  string
	Range     daterange.Range
	Total     int64
	CreatedAt time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Create(ctx context.Context, booking *Booking) error
	ListByTenant(ctx context.Context, tenantID string, limit, page int) ([]*Booking, error)
}

type CreateParams struct {
	ID        BookingID
	ListingID listings.ListingID
	TenantID  string
	Range     daterange.Range
	Total     int64
	CreatedAt time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.TenantID == "" {
		return nil, errors.New("booking: tenant id required")
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:        params.ID,
		ListingID: params.ListingID,
		TenantID:  params.TenantID,
		Range:     params.Range,
		Total:     params.Total,
		CreatedAt: now,
	}
	b.Record(ListingBooked{BookingID: b.ID, ListingID: b.ListingID, TenantID: b.TenantID, Range: b.Range, At: now})
	return b, nil
}
