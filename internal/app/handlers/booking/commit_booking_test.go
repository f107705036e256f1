package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homestay/internal/app/locks"
	"homestay/internal/app/policies"
	domainbooking "homestay/internal/domain/booking"
	domainlistings "homestay/internal/domain/listings"
	"homestay/internal/domain/shared/daterange"
	"homestay/internal/domain/shared/events"
	"homestay/internal/domain/users"
	"homestay/internal/infra/storage/memory"
)

var testNow = time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)

type fakePayments struct {
	mu      sync.Mutex
	charges []int64
	fail    bool
}

func (f *fakePayments) Charge(ctx context.Context, amount int64, source, payoutAccountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("card declined")
	}
	f.charges = append(f.charges, amount)
	return nil
}

func (f *fakePayments) ConnectAccount(ctx context.Context, authCode string) (string, error) {
	return "acct_test", nil
}

func (f *fakePayments) DisconnectAccount(ctx context.Context, payoutAccountID string) error {
	return nil
}

func (f *fakePayments) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.charges)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, ev events.DomainEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
	return nil
}

type fixture struct {
	handler  *CommitBookingHandler
	listings *memory.ListingRepository
	bookings *memory.BookingRepository
	users    *memory.UserRepository
	payments *fakePayments
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		listings: memory.NewListingRepository(),
		bookings: memory.NewBookingRepository(),
		users:    memory.NewUserRepository(),
		payments: &fakePayments{},
		notifier: &recordingNotifier{},
	}
	f.handler = &CommitBookingHandler{
		Listings: f.listings,
		Bookings: f.bookings,
		Users:    f.users,
		Payments: f.payments,
		Locks:    locks.NewKeyedMutex(),
		Notifier: f.notifier,
		Now:      func() time.Time { return testNow },
	}

	ctx := context.Background()
	require.NoError(t, f.users.Save(ctx, &users.User{ID: "host-1", WalletID: "acct_1"}))
	require.NoError(t, f.users.Save(ctx, &users.User{ID: "tenant-1"}))

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          "listing-1",
		Title:       "Cabin",
		HostID:      "host-1",
		Type:        domainlistings.TypeHouse,
		Price:       10000,
		NumOfGuests: 2,
		CreatedAt:   testNow,
	})
	require.NoError(t, err)
	listing.ClearEvents()
	require.NoError(t, f.listings.Save(ctx, listing))
	return f
}

func commitCmd(id, tenant, checkIn, checkOut string) CommitBookingCommand {
	return CommitBookingCommand{
		CommandID: id,
		ListingID: "listing-1",
		ViewerID:  tenant,
		Source:    "tok_visa",
		CheckIn:   checkIn,
		CheckOut:  checkOut,
	}
}

func TestCommitBookingSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	result, err := f.handler.Handle(ctx, commitCmd("b1", "tenant-1", "2024-06-01", "2024-06-03"))
	require.NoError(t, err)
	assert.Equal(t, "b1", result.BookingID)
	assert.Equal(t, 3, result.Days)
	assert.Equal(t, int64(30000), result.Total)

	stored, err := f.bookings.ByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", stored.TenantID)

	listing, err := f.listings.ByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, listing.BookingIDs)
	assert.Len(t, listing.Calendar, 3)

	host, err := f.users.ByID(ctx, "host-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30000), host.Income)

	tenant, err := f.users.ByID(ctx, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, tenant.BookingIDs)

	assert.Equal(t, []int64{30000}, f.payments.charges)
	require.Len(t, f.notifier.events, 1)
	booked, ok := f.notifier.events[0].(domainbooking.ListingBooked)
	require.True(t, ok)
	assert.Equal(t, domainlistings.ListingID("listing-1"), booked.ListingID)
}

func TestCommitBookingPaymentFailureLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	f.payments.fail = true
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, commitCmd("b1", "tenant-1", "2024-06-01", "2024-06-03"))
	assert.ErrorIs(t, err, policies.ErrPayment)

	_, err = f.bookings.ByID(ctx, "b1")
	assert.ErrorIs(t, err, domainbooking.ErrBookingNotFound)

	listing, err := f.listings.ByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Empty(t, listing.Calendar)
	assert.Empty(t, listing.BookingIDs)

	host, err := f.users.ByID(ctx, "host-1")
	require.NoError(t, err)
	assert.Zero(t, host.Income)
	assert.Empty(t, f.notifier.events)
}

func TestCommitBookingOverlapSecondStay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.handler.Handle(ctx, commitCmd("b1", "tenant-1", "2024-06-01", "2024-06-03"))
	require.NoError(t, err)

	_, err = f.handler.Handle(ctx, commitCmd("b2", "tenant-1", "2024-06-03", "2024-06-05"))
	var overlap *domainlistings.OverlapError
	require.ErrorAs(t, err, &overlap)
	assert.Equal(t, daterange.DayOf(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)), overlap.Day)

	// the failed attempt must not have charged
	assert.Equal(t, 1, f.payments.count())
}

func TestCommitBookingOwnListing(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.Handle(context.Background(), commitCmd("b1", "host-1", "2024-06-01", "2024-06-03"))
	assert.ErrorIs(t, err, domainbooking.ErrOwnBooking)
	assert.Zero(t, f.payments.count())
}

func TestConcurrentCommitsClaimEachDayOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const attempts = 8
	for i := 0; i < attempts; i++ {
		require.NoError(t, f.users.Save(ctx, &users.User{ID: fmt.Sprintf("tenant-%d", i)}))
	}

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tenant := fmt.Sprintf("tenant-%d", i)
			_, errs[i] = f.handler.Handle(ctx, commitCmd(fmt.Sprintf("b%d", i), tenant, "2024-06-01", "2024-06-03"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var overlap *domainlistings.OverlapError
		assert.ErrorAs(t, err, &overlap)
	}
	assert.Equal(t, 1, succeeded, "exactly one commit may claim the range")
	assert.Equal(t, 1, f.payments.count(), "losers must fail validation before charging")

	host, err := f.users.ByID(ctx, "host-1")
	require.NoError(t, err)
	assert.Equal(t, int64(30000), host.Income)

	listing, err := f.listings.ByID(ctx, "listing-1")
	require.NoError(t, err)
	assert.Len(t, listing.BookingIDs, 1)
	assert.Len(t, listing.Calendar, 3)
}
