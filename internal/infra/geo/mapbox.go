package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"homestay/internal/app/policies"
)

// Client resolves free-form addresses with the Mapbox geocoding API.
type Client struct {
	Token string
	HTTP  *http.Client
}

func New(token string) *Client {
	return &Client{Token: token, HTTP: &http.Client{Timeout: 10 * time.Second}}
}

func (c *Client) Resolve(ctx context.Context, addressText string) (policies.Location, error) {
	endpoint := fmt.Sprintf(
		"https://api.mapbox.com/geocoding/v5/mapbox.places/%s.json?access_token=%s&types=place,region,country&limit=1",
		url.PathEscape(addressText), url.QueryEscape(c.Token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return policies.Location{}, err
	}
	res, err := c.HTTP.Do(req)
	if err != nil {
		return policies.Location{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return policies.Location{}, fmt.Errorf("geocoder: %s", res.Status)
	}

	var out struct {
		Features []struct {
			PlaceType []string `json:"place_type"`
			Text      string   `json:"text"`
			Context   []struct {
				ID   string `json:"id"`
				Text string `json:"text"`
			} `json:"context"`
		} `json:"features"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return policies.Location{}, err
	}
	if len(out.Features) == 0 {
		return policies.Location{}, policies.ErrNoRegion
	}

	feature := out.Features[0]
	location := policies.Location{}
	assign := func(kind, text string) {
		switch kind {
		case "place":
			location.City = text
		case "region":
			location.Admin = text
		case "country":
			location.Country = text
		}
	}
	if len(feature.PlaceType) > 0 {
		assign(feature.PlaceType[0], feature.Text)
	}
	for _, c := range feature.Context {
		// context ids look like "region.12345"
		kind := c.ID
		if i := strings.IndexByte(kind, '.'); i >= 0 {
			kind = kind[:i]
		}
		assign(kind, c.Text)
	}
	if location.Country == "" {
		return policies.Location{}, policies.ErrNoRegion
	}
	return location, nil
}

var _ policies.GeocoderPort = (*Client)(nil)
