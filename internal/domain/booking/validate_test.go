package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/users"
)

var now = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

func fixtureListing(t *testing.T) *listings.Listing {
	t.Helper()
	l, err := listings.NewListing(listings.CreateParams{
		ID:          "listing-1",
		Title:       "Cabin",
		HostID:      "host-1",
		Type:        listings.TypeHouse,
		Price:       10000,
		NumOfGuests: 2,
		CreatedAt:   now,
	})
	require.NoError(t, err)
	return l
}

func fixtureHost() *users.User {
	return &users.User{ID: "host-1", WalletID: "acct_1"}
}

func rng(t *testing.T, checkIn, checkOut string) daterange.Range {
	t.Helper()
	r, err := daterange.Parse(checkIn, checkOut)
	require.NoError(t, err)
	return r
}

func TestValidateQuote(t *testing.T) {
	l := fixtureListing(t)
	quote, err := Validate(l, fixtureHost(), "tenant-1", rng(t, "2024-06-01", "2024-06-03"), now)
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Days)
	assert.Equal(t, int64(30000), quote.Total)
	assert.Len(t, quote.Reserved, 3)
	assert.Empty(t, l.Calendar, "validation must not touch the listing")
}

func TestValidateMissingListing(t *testing.T) {
	_, err := Validate(nil, fixtureHost(), "tenant-1", rng(t, "2024-06-01", "2024-06-03"), now)
	assert.ErrorIs(t, err, listings.ErrNotFound)
}

func TestValidateOwnListing(t *testing.T) {
	_, err := Validate(fixtureListing(t), fixtureHost(), "host-1", rng(t, "2024-06-01", "2024-06-03"), now)
	assert.ErrorIs(t, err, ErrOwnBooking)
}

func TestValidateLeadTimeBoundary(t *testing.T) {
	l := fixtureListing(t)

	// exactly 90 days out is allowed
	at90 := now.Add(90 * 24 * time.Hour).Format("2006-01-02")
	_, err := Validate(l, fixtureHost(), "tenant-1", rng(t, at90, at90), now)
	assert.NoError(t, err)

	// 91 days out is not
	at91 := now.Add(91 * 24 * time.Hour).Format("2006-01-02")
	_, err = Validate(l, fixtureHost(), "tenant-1", rng(t, at91, at91), now)
	assert.ErrorIs(t, err, ErrLeadTime)

	// checkout beyond the horizon fails even when checkin is inside
	_, err = Validate(l, fixtureHost(), "tenant-1", rng(t, at90, at91), now)
	assert.ErrorIs(t, err, ErrLeadTime)
}

func TestValidateInvertedRange(t *testing.T) {
	r := daterange.Range{
		CheckIn:  time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
	_, err := Validate(fixtureListing(t), fixtureHost(), "tenant-1", r, now)
	assert.ErrorIs(t, err, daterange.ErrInverted)
}

func TestValidateOverlap(t *testing.T) {
	l := fixtureListing(t)
	reserved, err := l.Calendar.TryReserve(rng(t, "2024-06-02", "2024-06-04"))
	require.NoError(t, err)
	l.Calendar = reserved

	_, err = Validate(l, fixtureHost(), "tenant-1", rng(t, "2024-06-01", "2024-06-02"), now)
	var overlap *listings.OverlapError
	assert.ErrorAs(t, err, &overlap)
}

func TestValidateHostWithoutWallet(t *testing.T) {
	host := fixtureHost()
	host.WalletID = ""
	_, err := Validate(fixtureListing(t), host, "tenant-1", rng(t, "2024-06-01", "2024-06-03"), now)
	assert.ErrorIs(t, err, ErrNoPayoutTarget)
}
