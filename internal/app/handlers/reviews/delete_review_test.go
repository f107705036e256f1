package reviews

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/app/locks"
	domainreviews "homestay/internal/domain/reviews"
)

func deleteHandler(h *AddReviewHandler) *DeleteReviewHandler {
	return &DeleteReviewHandler{
		Listings: h.Listings,
		Locks:    locks.NewKeyedMutex(),
		Now:      h.Now,
	}
}

func TestDeleteReviewRecomputesAggregates(t *testing.T) {
	repo := seedListing(t)
	add := addHandler(repo)
	del := deleteHandler(add)
	ctx := context.Background()

	_, err := add.Handle(ctx, addCmd("r1", "alice", 5))
	require.NoError(t, err)
	_, err = add.Handle(ctx, addCmd("r2", "bob", 3))
	require.NoError(t, err)

	result, err := del.Handle(ctx, DeleteReviewCommand{ListingID: "listing-1", ReviewID: "r2", CallerID: "bob"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumReviews)
	assert.Equal(t, 5.0, result.Rating)

	// removing the last review resets the rating
	result, err = del.Handle(ctx, DeleteReviewCommand{ListingID: "listing-1", ReviewID: "r1", CallerID: "alice"})
	require.NoError(t, err)
	assert.Zero(t, result.NumReviews)
	assert.Zero(t, result.Rating)
}

func TestDeleteReviewAuthorOnly(t *testing.T) {
	repo := seedListing(t)
	add := addHandler(repo)
	del := deleteHandler(add)
	ctx := context.Background()

	_, err := add.Handle(ctx, addCmd("r1", "alice", 4))
	require.NoError(t, err)

	_, err = del.Handle(ctx, DeleteReviewCommand{ListingID: "listing-1", ReviewID: "r1", CallerID: "mallory"})
	assert.ErrorIs(t, err, domainreviews.ErrUnauthorized)

	listing, err := repo.ByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Equal(t, 1, listing.NumReviews)
}

func TestDeleteReviewMissing(t *testing.T) {
	repo := seedListing(t)
	del := deleteHandler(addHandler(repo))

	_, err := del.Handle(context.Background(), DeleteReviewCommand{ListingID: "listing-1", ReviewID: "ghost", CallerID: "alice"})
	assert.ErrorIs(t, err, domainreviews.ErrNotFound)
}
