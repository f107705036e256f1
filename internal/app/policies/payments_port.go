package policies

import (
	"context"
	"errors"
)

var ErrPayment = errors.New("payments: charge was not accepted")

// PlatformFee is the cut retained on every charge: 5% of the amount,
// rounded to the nearest integer unit.
func PlatformFee(amount int64) int64 {
	return (amount*5 + 50) / 100
}

// PaymentsPort fronts the external payment processor. Charge routes
// amount to the payout account with the platform fee deducted; an error
// (or a non-success from the processor) must surface as ErrPayment so the
// commit protocol can abort before any record is written.
type PaymentsPort interface {
	Charge(ctx context.Context, amount int64, source string, payoutAccountID string) error
	ConnectAccount(ctx context.Context, authCode string) (string, error)
	DisconnectAccount(ctx context.Context, payoutAccountID string) error
}
