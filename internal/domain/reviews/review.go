package reviews

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrRatingRange     = errors.New("reviews: rating must be between 1 and 5")
	ErrAlreadyReviewed = errors.New("reviews: author already reviewed this listing")
	ErrUnauthorized    = errors.New("reviews: only the author may delete a review")
	ErrNotFound        = errors.New("reviews: review not found")
)

type ReviewID string

// Review is embedded in its listing; the listing owns the list and the
// cached aggregates over it.
type Review struct {
	ID        ReviewID
	AuthorID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

type SubmitParams struct {
	ID        ReviewID
	AuthorID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Submit validates a new review. The rating bound is 1..5 inclusive.
func Submit(params SubmitParams) (Review, error) {
	if params.Rating < 1 || params.Rating > 5 {
		return Review{}, ErrRatingRange
	}
	if params.AuthorID == "" {
		return Review{}, errors.New("reviews: author id required")
	}
	return Review{
		ID:        params.ID,
		AuthorID:  params.AuthorID,
		Rating:    params.Rating,
		Comment:   strings.TrimSpace(params.Comment),
		CreatedAt: params.CreatedAt.UTC(),
	}, nil
}

// List is the ordered set of reviews on one listing.
type List []Review

// Add enforces one review per author and returns the extended list.
// The receiver is never mutated.
func (l List) Add(r Review) (List, error) {
	for _, existing := range l {
		if existing.AuthorID == r.AuthorID {
			return nil, ErrAlreadyReviewed
		}
	}
	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	out = append(out, r)
	return out, nil
}

// Remove deletes the identified review after checking the caller is its
// author. The receiver is never mutated.
func (l List) Remove(id ReviewID, callerID string) (List, Review, error) {
	idx := -1
	for i, r := range l {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, Review{}, ErrNotFound
	}
	if l[idx].AuthorID != callerID {
		return nil, Review{}, ErrUnauthorized
	}
	removed := l[idx]
	out := make(List, 0, len(l)-1)
	out = append(out, l[:idx]...)
	out = append(out, l[idx+1:]...)
	return out, removed, nil
}

// Aggregates returns the exact count and arithmetic mean rating, with the
// mean pinned to 0 for an empty list.
func (l List) Aggregates() (numReviews int, rating float64) {
	if len(l) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range l {
		sum += r.Rating
	}
	return len(l), float64(sum) / float64(len(l))
}
