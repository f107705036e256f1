package policies

import (
	"context"
	"errors"
)

var ErrNoRegion = errors.New("geocoder: no country resolved for address")

// Location is the administrative breakdown of a free-form address.
type Location struct {
	Country string
	Admin   string
	City    string
}

type GeocoderPort interface {
	Resolve(ctx context.Context, addressText string) (Location, error)
}
