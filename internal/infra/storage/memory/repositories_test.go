package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainlistings "homestay/internal/domain/listings"
	"homestay/internal/domain/users"
)

func testListing(t *testing.T, id, host, country, city string, price int64, createdAt time.Time) *domainlistings.Listing {
	t.Helper()
	l, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:     domainlistings.ListingID(id),
		Title:  "Place " + id,
		HostID: host,
		Type:   domainlistings.TypeApartment,
		Address: domainlistings.Address{
			Country: country,
			Admin:   "Region",
			City:    city,
		},
		Price:       price,
		NumOfGuests: 2,
		CreatedAt:   createdAt,
	})
	require.NoError(t, err)
	l.ClearEvents()
	return l
}

func TestListingSaveRejectsStaleVersion(t *testing.T) {
	repo := NewListingRepository()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, repo.Save(ctx, testListing(t, "l1", "h1", "Canada", "Toronto", 100, now)))

	a, err := repo.ByID(ctx, "l1")
	require.NoError(t, err)
	b, err := repo.ByID(ctx, "l1")
	require.NoError(t, err)

	a.Title = "First writer"
	require.NoError(t, repo.Save(ctx, a))

	b.Title = "Second writer"
	assert.ErrorIs(t, repo.Save(ctx, b), domainlistings.ErrConcurrentUpdate)

	stored, err := repo.ByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "First writer", stored.Title)
}

func TestListingSaveRejectsStaleInsert(t *testing.T) {
	repo := NewListingRepository()
	ctx := context.Background()

	l := testListing(t, "l1", "h1", "Canada", "Toronto", 100, time.Now().UTC())
	l.Version = 3
	assert.ErrorIs(t, repo.Save(ctx, l), domainlistings.ErrConcurrentUpdate)
}

func TestListingReadsAreCopies(t *testing.T) {
	repo := NewListingRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, testListing(t, "l1", "h1", "Canada", "Toronto", 100, time.Now().UTC())))

	read, err := repo.ByID(ctx, "l1")
	require.NoError(t, err)
	read.Title = "mutated locally"
	read.BookingIDs = append(read.BookingIDs, "b1")

	stored, err := repo.ByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "Place l1", stored.Title)
	assert.Empty(t, stored.BookingIDs)
}

func TestListingSearchFiltersAndSorts(t *testing.T) {
	repo := NewListingRepository()
	ctx := context.Background()
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, testListing(t, "l1", "h1", "Canada", "Toronto", 300, base)))
	require.NoError(t, repo.Save(ctx, testListing(t, "l2", "h1", "Canada", "Toronto", 100, base.Add(time.Hour))))
	require.NoError(t, repo.Save(ctx, testListing(t, "l3", "h2", "France", "Paris", 200, base.Add(2*time.Hour))))

	result, err := repo.Search(ctx, domainlistings.SearchParams{
		Country: "canada",
		City:    "toronto",
		Sort:    domainlistings.SortPriceLowHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Result, 2)
	assert.Equal(t, domainlistings.ListingID("l2"), result.Result[0].ID)
	assert.Equal(t, domainlistings.ListingID("l1"), result.Result[1].ID)

	result, err = repo.Search(ctx, domainlistings.SearchParams{HostID: "h2"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestListingSearchPagination(t *testing.T) {
	repo := NewListingRepository()
	ctx := context.Background()
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("l%d", i)
		require.NoError(t, repo.Save(ctx, testListing(t, id, "h1", "Canada", "Toronto", int64(100+i), base)))
	}

	page1, err := repo.Search(ctx, domainlistings.SearchParams{Sort: domainlistings.SortPriceLowHigh, Limit: 2, Page: 1})
	require.NoError(t, err)
	page3, err := repo.Search(ctx, domainlistings.SearchParams{Sort: domainlistings.SortPriceLowHigh, Limit: 2, Page: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, page1.Total)
	require.Len(t, page1.Result, 2)
	assert.Equal(t, int64(100), page1.Result[0].Price)
	require.Len(t, page3.Result, 1)
	assert.Equal(t, int64(104), page3.Result[0].Price)
}

func TestUserMutationsAreAtomicStyle(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &users.User{ID: "u1"}))
	require.NoError(t, repo.AddIncome(ctx, "u1", 5000))
	require.NoError(t, repo.AddIncome(ctx, "u1", 2500))
	require.NoError(t, repo.LinkBooking(ctx, "u1", "b1"))
	require.NoError(t, repo.LinkListing(ctx, "u1", "l1"))
	require.NoError(t, repo.SetWallet(ctx, "u1", "acct_1"))

	u, err := repo.ByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(7500), u.Income)
	assert.Equal(t, []string{"b1"}, u.BookingIDs)
	assert.Equal(t, []string{"l1"}, u.ListingIDs)
	assert.Equal(t, "acct_1", u.WalletID)
	assert.True(t, u.HasWallet())

	assert.ErrorIs(t, repo.AddIncome(ctx, "ghost", 1), users.ErrNotFound)
}
