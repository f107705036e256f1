package reviews

import (
	"context"
	"time"

	"homestay/internal/app/commands"
	"homestay/internal/app/locks"
	"homestay/internal/app/policies"
	domainlistings "homestay/internal/domain/listings"
	domainreviews "homestay/internal/domain/reviews"
)

const addReviewKey = "reviews.add"

type AddReviewCommand struct {
	ReviewID  string
	ListingID string
	AuthorID  string
	Rating    int
	Comment   string
}

func (c AddReviewCommand) Key() string { return addReviewKey }

type ReviewResult struct {
	ReviewID   string  `json:"review_id"`
	NumReviews int     `json:"num_reviews"`
	Rating     float64 `json:"rating"`
}

// AddReviewHandler appends a review to its listing and refreshes the
// cached aggregates in the same save, relying on the store's per-document
// atomicity (versioned write) for the read-modify-write.
type AddReviewHandler struct {
	Listings domainlistings.Repository
	Locks    locks.Locker
	Notifier policies.Notifier
	Now      func() time.Time
}

func (h *AddReviewHandler) Handle(ctx context.Context, cmd AddReviewCommand) (*ReviewResult, error) {
	release, err := h.Locks.Acquire(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	defer release()

	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}

	review, err := domainreviews.Submit(domainreviews.SubmitParams{
		ID:        domainreviews.ReviewID(cmd.ReviewID),
		AuthorID:  cmd.AuthorID,
		Rating:    cmd.Rating,
		Comment:   cmd.Comment,
		CreatedAt: h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := listing.AddReview(review); err != nil {
		return nil, err
	}
	if err := h.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}

	notifyPending(ctx, h.Notifier, &listing.EventRecorder)

	return &ReviewResult{ReviewID: string(review.ID), NumReviews: listing.NumReviews, Rating: listing.Rating}, nil
}

func (h *AddReviewHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[AddReviewCommand, *ReviewResult] = (*AddReviewHandler)(nil)
