package listings

import (
	"context"
	"time"

	"homestay/internal/app/commands"
	"homestay/internal/app/policies"
	domainlistings "homestay/internal/domain/listings"
	"homestay/internal/domain/users"
)

const createListingKey = "listings.create"

type CreateListingCommand struct {
	CommandID   string
	HostID      string
	Title       string
	Description string
	Type        string
	Address     string
	Price       int64
	NumOfGuests int
	Base64Image string
}

func (c CreateListingCommand) Key() string { return createListingKey }

type CreateListingResult struct {
	ListingID string `json:"listing_id"`
}

// CreateListingHandler resolves the address through the geocoder, pushes
// the image to the asset host, then persists the listing and links it on
// the host.
type CreateListingHandler struct {
	Listings domainlistings.Repository
	Users    users.Repository
	Geocoder policies.GeocoderPort
	Assets   policies.AssetsPort
	Notifier policies.Notifier
	Now      func() time.Time
}

func (h *CreateListingHandler) Handle(ctx context.Context, cmd CreateListingCommand) (*CreateListingResult, error) {
	host, err := h.Users.ByID(ctx, cmd.HostID)
	if err != nil {
		return nil, err
	}

	location, err := h.Geocoder.Resolve(ctx, cmd.Address)
	if err != nil {
		return nil, err
	}
	if location.Country == "" {
		return nil, policies.ErrNoRegion
	}

	imageURL, err := h.Assets.Upload(ctx, cmd.Base64Image)
	if err != nil {
		return nil, err
	}

	listing, err := domainlistings.NewListing(domainlistings.CreateParams{
		ID:          domainlistings.ListingID(cmd.CommandID),
		Title:       cmd.Title,
		Description: cmd.Description,
		Image:       imageURL,
		HostID:      host.ID,
		Type:        domainlistings.ListingType(cmd.Type),
		Address: domainlistings.Address{
			Text:    cmd.Address,
			Country: location.Country,
			Admin:   location.Admin,
			City:    location.City,
		},
		Price:       cmd.Price,
		NumOfGuests: cmd.NumOfGuests,
		CreatedAt:   h.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := h.Listings.Save(ctx, listing); err != nil {
		return nil, err
	}
	if err := h.Users.LinkListing(ctx, host.ID, string(listing.ID)); err != nil {
		return nil, err
	}

	if h.Notifier != nil {
		for _, ev := range listing.PendingEvents() {
			_ = h.Notifier.Notify(ctx, ev)
		}
		listing.ClearEvents()
	}

	return &CreateListingResult{ListingID: string(listing.ID)}, nil
}

func (h *CreateListingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[CreateListingCommand, *CreateListingResult] = (*CreateListingHandler)(nil)
