package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"homestay/internal/app/commands"
	"homestay/internal/app/locks"
	"homestay/internal/app/middleware"
	"homestay/internal/app/policies"
	domainbooking "homestay/internal/domain/booking"
	domainlistings "homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/users"
)

const commitBookingKey = "booking.commit"

type CommitBookingCommand struct {
	CommandID       string
	ListingID       string
	ViewerID        string
	Source          string
	CheckIn         string
	CheckOut        string
	IdempotencyKeyV string
}

func (c CommitBookingCommand) Key() string { return commitBookingKey }

func (c CommitBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CommitBookingCommand) ResultPrototype() any { return &CommitBookingResult{} }

type CommitBookingResult struct {
	BookingID string `json:"booking_id"`
	Days      int    `json:"days"`
	Total     int64  `json:"total"`
}

// CommitBookingHandler turns a validated booking intent into durable
// records: charge, booking document, calendar update, host income, and
// the tenant/listing back-references.
//
// The whole sequence runs under the listing's lock so two commits against
// one listing serialize; the listing save is additionally a conditional
// versioned write, so even a commit racing from another process cannot
// produce a lost calendar update. Together: at most one successful commit
// claims any given day.
type CommitBookingHandler struct {
	Listings domainlistings.Repository
	Bookings domainbooking.Repository
	Users    users.Repository
	Payments policies.PaymentsPort
	Locks    locks.Locker
	Notifier policies.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

func (h *CommitBookingHandler) Handle(ctx context.Context, cmd CommitBookingCommand) (*CommitBookingResult, error) {
	r, err := daterange.Parse(cmd.CheckIn, cmd.CheckOut)
	if err != nil {
		return nil, err
	}

	release, err := h.Locks.Acquire(ctx, cmd.ListingID)
	if err != nil {
		return nil, err
	}
	defer release()

	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(cmd.ListingID))
	if err != nil {
		return nil, err
	}
	host, err := h.Users.ByID(ctx, listing.HostID)
	if err != nil {
		return nil, err
	}

	now := h.now()
	quote, err := domainbooking.Validate(listing, host, cmd.ViewerID, r, now)
	if err != nil {
		return nil, err
	}

	// Point of no return: once the charge succeeds, every failure below
	// leaves money moved without a booking recorded. There is no
	// reconciliation path for that today; it is logged loudly instead.
	if err := h.Payments.Charge(ctx, quote.Total, cmd.Source, host.WalletID); err != nil {
		return nil, fmt.Errorf("%w: %v", policies.ErrPayment, err)
	}

	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:        domainbooking.BookingID(cmd.CommandID),
		ListingID: listing.ID,
		TenantID:  cmd.ViewerID,
		Range:     r,
		Total:     quote.Total,
		CreatedAt: now,
	})
	if err != nil {
		h.chargedButUnrecorded(cmd, err)
		return nil, err
	}
	if err := h.Bookings.Create(ctx, bk); err != nil {
		h.chargedButUnrecorded(cmd, err)
		return nil, err
	}

	listing.AttachBooking(string(bk.ID), quote.Reserved)
	if err := h.Listings.Save(ctx, listing); err != nil {
		h.chargedButUnrecorded(cmd, err)
		return nil, err
	}

	if err := h.Users.AddIncome(ctx, host.ID, quote.Total); err != nil {
		h.chargedButUnrecorded(cmd, err)
		return nil, err
	}
	if err := h.Users.LinkBooking(ctx, cmd.ViewerID, string(bk.ID)); err != nil {
		h.chargedButUnrecorded(cmd, err)
		return nil, err
	}

	h.publish(ctx, bk)

	return &CommitBookingResult{BookingID: string(bk.ID), Days: quote.Days, Total: quote.Total}, nil
}

// publish delivers pending events best-effort; a failed publish never
// rolls back the booking.
func (h *CommitBookingHandler) publish(ctx context.Context, bk *domainbooking.Booking) {
	if h.Notifier == nil {
		return
	}
	for _, ev := range bk.PendingEvents() {
		if err := h.Notifier.Notify(ctx, ev); err != nil && h.Logger != nil {
			h.Logger.Warn("booking notification dropped", "event", ev.EventName(), "booking_id", string(bk.ID), "error", err)
		}
	}
	bk.ClearEvents()
}

func (h *CommitBookingHandler) chargedButUnrecorded(cmd CommitBookingCommand, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.Error("charge succeeded but booking persistence failed; manual reconciliation required",
		"listing_id", cmd.ListingID, "viewer_id", cmd.ViewerID, "command_id", cmd.CommandID, "error", err)
}

func (h *CommitBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CommitBookingCommand, *CommitBookingResult] = (*CommitBookingHandler)(nil)
var _ middleware.IdempotentCommand = CommitBookingCommand{}
