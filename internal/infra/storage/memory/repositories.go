package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainbooking "homestay/internal/domain/booking"
	domainlistings "homestay/internal/domain/listings"
	domainreviews "homestay/internal/domain/reviews"
	"homestay/internal/domain/shared/events"
	"homestay/internal/domain/users"
)

// ListingRepository is an in-memory implementation with the same
// conditional-write contract as the mongo store: Save only succeeds when
// the caller holds the current version, and reads hand out copies so a
// discarded quote can never leak into stored state.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ListingID]*domainlistings.Listing)}
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrNotFound
	}
	return copyListing(listing), nil
}

func (r *ListingRepository) Save(ctx context.Context, listing *domainlistings.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, exists := r.items[listing.ID]
	if exists && current.Version != listing.Version {
		return domainlistings.ErrConcurrentUpdate
	}
	if !exists && listing.Version != 0 {
		return domainlistings.ErrConcurrentUpdate
	}
	listing.Version++
	r.items[listing.ID] = copyListing(listing)
	return nil
}

func (r *ListingRepository) Search(ctx context.Context, params domainlistings.SearchParams) (domainlistings.SearchResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	opts := params.Normalized()
	matches := make([]*domainlistings.Listing, 0, len(r.items))
	for _, listing := range r.items {
		if opts.HostID != "" && listing.HostID != opts.HostID {
			continue
		}
		if opts.Country != "" && !strings.EqualFold(listing.Address.Country, opts.Country) {
			continue
		}
		if opts.Admin != "" && !strings.EqualFold(listing.Address.Admin, opts.Admin) {
			continue
		}
		if opts.City != "" && !strings.EqualFold(listing.Address.City, opts.City) {
			continue
		}
		matches = append(matches, copyListing(listing))
	}

	sort.Slice(matches, func(i, j int) bool {
		switch opts.Sort {
		case domainlistings.SortPriceLowHigh:
			return matches[i].Price < matches[j].Price
		case domainlistings.SortPriceHighLow:
			return matches[i].Price > matches[j].Price
		default:
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
	})

	total := len(matches)
	start := opts.Offset()
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return domainlistings.SearchResult{Total: total, Result: matches[start:end]}, nil
}

func copyListing(l *domainlistings.Listing) *domainlistings.Listing {
	out := *l
	out.Calendar = l.Calendar.Clone()
	out.BookingIDs = append([]string(nil), l.BookingIDs...)
	out.Reviews = append(domainreviews.List(nil), l.Reviews...)
	out.EventRecorder = events.EventRecorder{}
	return &out
}

// BookingRepository stores immutable booking records.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
	order []domainbooking.BookingID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *b
	r.items[b.ID] = &stored
	r.order = append(r.order, b.ID)
	return nil
}

func (r *BookingRepository) ListByTenant(ctx context.Context, tenantID string, limit, page int) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 {
		limit = 10
	}
	if page <= 0 {
		page = 1
	}
	all := make([]*domainbooking.Booking, 0)
	for _, id := range r.order {
		b := r.items[id]
		if b.TenantID != tenantID {
			continue
		}
		out := *b
		all = append(all, &out)
	}
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

// UserRepository keeps users in memory; the single-field mutations mirror
// the atomic $inc/$push updates the mongo store issues.
type UserRepository struct {
	mu    sync.RWMutex
	items map[string]*users.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{items: make(map[string]*users.User)}
}

func (r *UserRepository) ByID(ctx context.Context, id string) (*users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *UserRepository) Save(ctx context.Context, u *users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[u.ID] = copyUser(u)
	return nil
}

func (r *UserRepository) AddIncome(ctx context.Context, id string, amount int64) error {
	return r.mutate(id, func(u *users.User) { u.Income += amount })
}

func (r *UserRepository) LinkBooking(ctx context.Context, id string, bookingID string) error {
	return r.mutate(id, func(u *users.User) { u.BookingIDs = append(u.BookingIDs, bookingID) })
}

func (r *UserRepository) LinkListing(ctx context.Context, id string, listingID string) error {
	return r.mutate(id, func(u *users.User) { u.ListingIDs = append(u.ListingIDs, listingID) })
}

func (r *UserRepository) SetWallet(ctx context.Context, id string, walletID string) error {
	return r.mutate(id, func(u *users.User) { u.WalletID = walletID })
}

func (r *UserRepository) mutate(id string, fn func(*users.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return users.ErrNotFound
	}
	fn(u)
	return nil
}

func copyUser(u *users.User) *users.User {
	out := *u
	out.BookingIDs = append([]string(nil), u.BookingIDs...)
	out.ListingIDs = append([]string(nil), u.ListingIDs...)
	return &out
}
