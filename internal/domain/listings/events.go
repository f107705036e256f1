package listings

import (
	"time"

	"homestay/internal/domain/reviews"
)

type ListingCreated struct {
	ListingID ListingID
	HostID    string
	At        time.Time
}

func (e ListingCreated) EventName() string     { return "listing.created" }
func (e ListingCreated) AggregateID() string   { return string(e.ListingID) }
func (e ListingCreated) OccurredAt() time.Time { return e.At }

type ReviewAdded struct {
	ListingID ListingID
	ReviewID  reviews.ReviewID
	Rating    int
	At        time.Time
}

func (e ReviewAdded) EventName() string     { return "listing.review_added" }
func (e ReviewAdded) AggregateID() string   { return string(e.ListingID) }
func (e ReviewAdded) OccurredAt() time.Time { return e.At }

type ReviewRemoved struct {
	ListingID ListingID
	ReviewID  reviews.ReviewID
	At        time.Time
}

func (e ReviewRemoved) EventName() string     { return "listing.review_removed" }
func (e ReviewRemoved) AggregateID() string   { return string(e.ListingID) }
func (e ReviewRemoved) OccurredAt() time.Time { return e.At }
