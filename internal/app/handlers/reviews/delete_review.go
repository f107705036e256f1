package reviews

import (
	"context"
	"time"

	"homestay/internal/app/commands"
	"homestay/internal/app/locks"
	"homestay/internal/app/policies"
	domainlistings "homestay/internal/domain/listings"
	domainreviews "homestay/internal/domain/reviews"
	"homestay/internal/domain/shared/events"
)

const deleteReviewKey = "reviews.delete"

type DeleteReviewCommand struct {
	ListingID string
	ReviewID  string
	CallerID  string
}

func (c DeleteReviewCommand) Key() string { return deleteReviewKey }

// DeleteReviewHandler removes the caller's review and recomputes the
// listing aggregates; removing the last review resets the rating to 0.
type DeleteReviewHandler struct {
	Listings domainlistings.Repository
	Locks    locks.Locker
	Notifier policies.Notifier
	Now      func() time.Time
}

func (h *DeleteReviewHandler) Handle(ctx context.Context, cmd DeleteReviewCommand) (*ReviewResult, error) {
	release, err := h.Locks.Acquire(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	defer release()

	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}

	removed, err := listing.RemoveReview(domainreviews.ReviewID(cmd.ReviewID), cmd.CallerID, h.now())
	if err != nil {
		return nil, err
	}
	if err := h.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}

	notifyPending(ctx, h.Notifier, &listing.EventRecorder)

	return &ReviewResult{ReviewID: string(removed.ID), NumReviews: listing.NumReviews, Rating: listing.Rating}, nil
}

func (h *DeleteReviewHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

// notifyPending flushes recorded events best-effort.
func notifyPending(ctx context.Context, notifier policies.Notifier, rec *events.EventRecorder) {
	if notifier == nil {
		rec.ClearEvents()
		return
	}
	for _, ev := range rec.PendingEvents() {
		_ = notifier.Notify(ctx, ev)
	}
	rec.ClearEvents()
}

var _ commands.Handler[DeleteReviewCommand, *ReviewResult] = (*DeleteReviewHandler)(nil)
