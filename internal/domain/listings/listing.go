package listings

import (
	"context"
	"errors"
	"strings"
	"time"

	"homestay/internal/domain/reviews"
	"homestay/internal/domain/shared/events"
)

var (
	ErrNotFound           = errors.New("listings: listing not found")
	ErrConcurrentUpdate   = errors.New("listings: concurrent update detected")
	ErrTitleTooLong       = errors.New("listings: title must be under 100 characters")
	ErrDescriptionTooLong = errors.New("listings: description must be under 5000 characters")
	ErrInvalidType        = errors.New("listings: type must be an apartment or a house")
	ErrNegativePrice      = errors.New("listings: price must not be negative")
)

type ListingID string

type ListingType string

const (
	TypeApartment ListingType = "APARTMENT"
	TypeHouse     ListingType = "HOUSE"
)

// Address holds the geocoded location of a listing.
type Address struct {
	Text    string
	Country string
	Admin   string
	City    string
}

// Listing is the aggregate root for availability and reviews. It
// exclusively owns its CalendarIndex and review list; bookings and users
// are linked by id only.
type Listing struct {
	ID          ListingID
	Title       string
	Description string
	Image       string
	HostID      string
	Type        ListingType
	Address     Address
	Price       int64
	NumOfGuests int
	BookingIDs  []string
	Calendar    CalendarIndex
	Reviews     reviews.List
	NumReviews  int
	Rating      float64
	CreatedAt   time.Time
	Version     int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
	Save(ctx context.Context, listing *Listing) error
	Search(ctx context.Context, params SearchParams) (SearchResult, error)
}

type CreateParams struct {
	ID          ListingID
	Title       string
	Description string
	Image       string
	HostID      string
	Type        ListingType
	Address     Address
	Price       int64
	NumOfGuests int
	CreatedAt   time.Time
}

// NewListing validates host input and builds an empty-calendar listing.
func NewListing(params CreateParams) (*Listing, error) {
	if len(params.Title) > 100 {
		return nil, ErrTitleTooLong
	}
	if len(params.Description) > 5000 {
		return nil, ErrDescriptionTooLong
	}
	if params.Type != TypeApartment && params.Type != TypeHouse {
		return nil, ErrInvalidType
	}
	if params.Price < 0 {
		return nil, ErrNegativePrice
	}
	if params.HostID == "" {
		return nil, errors.New("listings: host id required")
	}
	l := &Listing{
		ID:          params.ID,
		Title:       strings.TrimSpace(params.Title),
		Description: strings.TrimSpace(params.Description),
		Image:       params.Image,
		HostID:      params.HostID,
		Type:        params.Type,
		Address:     params.Address,
		Price:       params.Price,
		NumOfGuests: params.NumOfGuests,
		Calendar:    CalendarIndex{},
		CreatedAt:   params.CreatedAt.UTC(),
	}
	l.Record(ListingCreated{ListingID: l.ID, HostID: l.HostID, At: l.CreatedAt})
	return l, nil
}

// AttachBooking replaces the calendar with the validated index and appends
// the booking reference. The caller supplies an index produced by
// TryReserve against this listing's current calendar.
func (l *Listing) AttachBooking(bookingID string, reserved CalendarIndex) {
	l.Calendar = reserved
	l.BookingIDs = append(l.BookingIDs, bookingID)
}

// AddReview appends the review and recomputes the cached aggregates.
func (l *Listing) AddReview(r reviews.Review) error {
	updated, err := l.Reviews.Add(r)
	if err != nil {
		return err
	}
	l.Reviews = updated
	l.NumReviews, l.Rating = updated.Aggregates()
	l.Record(ReviewAdded{ListingID: l.ID, ReviewID: r.ID, Rating: r.Rating, At: r.CreatedAt})
	return nil
}

// RemoveReview deletes the author's review and recomputes the aggregates;
// an emptied list pins the rating back to 0.
func (l *Listing) RemoveReview(id reviews.ReviewID, callerID string, now time.Time) (reviews.Review, error) {
	updated, removed, err := l.Reviews.Remove(id, callerID)
	if err != nil {
		return reviews.Review{}, err
	}
	l.Reviews = updated
	l.NumReviews, l.Rating = updated.Aggregates()
	l.Record(ReviewRemoved{ListingID: l.ID, ReviewID: id, At: now.UTC()})
	return removed, nil
}
