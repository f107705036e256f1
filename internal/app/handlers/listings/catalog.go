package listings

import (
	"context"
	"strings"

	"homestay/internal/app/policies"
	domainlistings "homestay/internal/domain/listings"
)

// CatalogQuery searches published listings, optionally scoped to a
// free-form location that the geocoder turns into country/admin/city
// filters.
type CatalogQuery struct {
	Location string
	Sort     domainlistings.SortOrder
	Limit    int
	Page     int
}

type CatalogResult struct {
	Region string                   `json:"region,omitempty"`
	Total  int                      `json:"total"`
	Result []*domainlistings.Listing `json:"result"`
}

type CatalogHandler struct {
	Listings domainlistings.Repository
	Geocoder policies.GeocoderPort
}

func (h *CatalogHandler) Handle(ctx context.Context, q CatalogQuery) (*CatalogResult, error) {
	params := domainlistings.SearchParams{
		Sort:  q.Sort,
		Limit: q.Limit,
		Page:  q.Page,
	}
	region := ""
	if q.Location != "" {
		location, err := h.Geocoder.Resolve(ctx, q.Location)
		if err != nil {
			return nil, err
		}
		if location.Country == "" {
			return nil, policies.ErrNoRegion
		}
		params.Country = location.Country
		params.Admin = location.Admin
		params.City = location.City
		region = formatRegion(location)
	}

	found, err := h.Listings.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &CatalogResult{Region: region, Total: found.Total, Result: found.Result}, nil
}

func formatRegion(l policies.Location) string {
	parts := make([]string, 0, 3)
	if l.City != "" {
		parts = append(parts, l.City)
	}
	if l.Admin != "" {
		parts = append(parts, l.Admin)
	}
	parts = append(parts, l.Country)
	return strings.Join(parts, ", ")
}
