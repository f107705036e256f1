package identity

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

const (
	tokenEndpoint    = "https://oauth2.googleapis.com/token"
	userinfoEndpoint = "https://openidconnect.googleapis.com/v1/userinfo"
)

// Client implements the identity port against Google's OAuth endpoints.
type Client struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	HTTP         *http.Client
}

func New(clientID, clientSecret, redirectURL string) *Client {
	return &Client{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		HTTP:         &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) ExchangeCode(ctx context.Context, authCode string) (policies.Profile, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", authCode)
	form.Set("client_id", c.ClientID)
	form.Set("client_secret", c.ClientSecret)
	form.Set("redirect_uri", c.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return policies.Profile{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.HTTP.Do(req)
	if err != nil {
		return policies.Profile{}, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		return policies.Profile{}, fmt.Errorf("identity: token exchange failed: %s", res.Status)
	}
	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&token); err != nil {
		return policies.Profile{}, err
	}

	infoReq, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoEndpoint, nil)
	if err != nil {
		return policies.Profile{}, err
	}
	infoReq.Header.Set("Authorization", "Bearer "+token.AccessToken)

	infoRes, err := c.HTTP.Do(infoReq)
	if err != nil {
		return policies.Profile{}, err
	}
	defer infoRes.Body.Close()
	if infoRes.StatusCode >= 400 {
		return policies.Profile{}, fmt.Errorf("identity: userinfo failed: %s", infoRes.Status)
	}
	var info struct {
		Sub     string `json:"sub"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
		Email   string `json:"email"`
	}
	if err := json.NewDecoder(infoRes.Body).Decode(&info); err != nil {
		return policies.Profile{}, err
	}
	return policies.Profile{
		ExternalID: info.Sub,
		Name:       info.Name,
		Avatar:     info.Picture,
		Email:      info.Email,
	}, nil
}

var _ policies.IdentityPort = (*Client)(nil)
