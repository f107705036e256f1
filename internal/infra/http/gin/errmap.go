package ginserver

import (
	"context"
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"homestay/internal/app/policies"
	domainbooking "homestay/internal/domain/booking"
	domainchat "homestay/internal/domain/chat"
	domainlistings "homestay/internal/domain/listings"
	domainreviews "homestay/internal/domain/reviews"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/shared/storage"
	"homestay/internal/domain/users"
)

// writeError maps domain errors onto HTTP statuses. Every expected
// failure crosses the boundary verbatim in the response body; unexpected
// store errors hide their internals behind a retryable 503.
func writeError(c *gin.Context, err error) {
	var overlap *domainlistings.OverlapError
	switch {
	case errors.Is(err, domainlistings.ErrNotFound),
		errors.Is(err, domainbooking.ErrBookingNotFound),
		errors.Is(err, domainreviews.ErrNotFound),
		errors.Is(err, users.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &overlap),
		errors.Is(err, domainbooking.ErrOwnBooking),
		errors.Is(err, domainbooking.ErrLeadTime),
		errors.Is(err, daterange.ErrInverted),
		errors.Is(err, daterange.ErrInvalidDate),
		errors.Is(err, domainreviews.ErrRatingRange),
		errors.Is(err, domainreviews.ErrAlreadyReviewed),
		errors.Is(err, domainlistings.ErrTitleTooLong),
		errors.Is(err, domainlistings.ErrDescriptionTooLong),
		errors.Is(err, domainlistings.ErrInvalidType),
		errors.Is(err, domainlistings.ErrNegativePrice),
		errors.Is(err, domainchat.ErrEmptyMessage),
		errors.Is(err, domainchat.ErrMessageTooLong),
		errors.Is(err, domainchat.ErrSelfMessage),
		errors.Is(err, policies.ErrNoRegion):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, domainbooking.ErrNoPayoutTarget),
		errors.Is(err, policies.ErrPayment):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, domainreviews.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case storage.Is(err),
		errors.Is(err, domainlistings.ErrConcurrentUpdate),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		// includes lock acquisition timing out on a contended listing
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporary storage failure, try again"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
