package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("users: user not found")

// User carries the marketplace-side profile of an identity-provider
// account. Income only ever grows through booking commits; there are no
// refunds, so the field is a monotonic counter.
type User struct {
	ID         string
	Name       string
	Avatar     string
	Contact    string
	WalletID   string
	Income     int64
	BookingIDs []string
	ListingIDs []string
	CreatedAt  time.Time
}

// HasWallet reports whether the user can receive payouts.
func (u *User) HasWallet() bool {
	return u.WalletID != ""
}

// Repository persists users. AddIncome and the two link appenders are
// single-field mutations the store applies atomically ($inc / $push
// style), so they need no read-modify-write cycle.
type Repository interface {
	ByID(ctx context.Context, id string) (*User, error)
	Save(ctx context.Context, user *User) error
	AddIncome(ctx context.Context, id string, amount int64) error
	LinkBooking(ctx context.Context, id string, bookingID string) error
	LinkListing(ctx context.Context, id string, listingID string) error
	SetWallet(ctx context.Context, id string, walletID string) error
}
