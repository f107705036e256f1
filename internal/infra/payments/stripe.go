package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"homestay/internal/app/policies"
)

const apiBase = "https://api.stripe.com/v1"
const connectBase = "https://connect.stripe.com"

// Client talks to the Stripe REST API directly: one charge call and the
// Connect OAuth pair is all this service needs.
type Client struct {
	SecretKey string
	ClientID  string
	HTTP      *http.Client
}

func New(secretKey, clientID string) *Client {
	return &Client{
		SecretKey: secretKey,
		ClientID:  clientID,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

// Charge bills the source for amount, routed to the host's connected
// account, retaining the platform fee. Anything but a succeeded charge
// comes back as ErrPayment.
func (c *Client) Charge(ctx context.Context, amount int64, source string, payoutAccountID string) error {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", "usd")
	form.Set("source", source)
	form.Set("application_fee_amount", strconv.FormatInt(policies.PlatformFee(amount), 10))

	var out struct {
		Status string `json:"status"`
	}
	headers := map[string]string{"Stripe-Account": payoutAccountID}
	if err := c.postForm(ctx, apiBase+"/charges", form, headers, &out); err != nil {
		return fmt.Errorf("%w: %v", policies.ErrPayment, err)
	}
	if out.Status != "succeeded" {
		return fmt.Errorf("%w: charge status %q", policies.ErrPayment, out.Status)
	}
	return nil
}

// ConnectAccount exchanges the Connect OAuth code for the host's account
// id, the payout target for future charges.
func (c *Client) ConnectAccount(ctx context.Context, authCode string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", authCode)

	var out struct {
		StripeUserID string `json:"stripe_user_id"`
	}
	if err := c.postForm(ctx, connectBase+"/oauth/token", form, nil, &out); err != nil {
		return "", err
	}
	if out.StripeUserID == "" {
		return "", fmt.Errorf("%w: empty connected account", policies.ErrPayment)
	}
	return out.StripeUserID, nil
}

func (c *Client) DisconnectAccount(ctx context.Context, payoutAccountID string) error {
	form := url.Values{}
	form.Set("client_id", c.ClientID)
	form.Set("stripe_user_id", payoutAccountID)
	return c.postForm(ctx, connectBase+"/oauth/deauthorize", form, nil, nil)
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.SecretKey, "")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(res.Body).Decode(&apiErr)
		return fmt.Errorf("stripe: %s: %s", res.Status, apiErr.Error.Message)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

var _ policies.PaymentsPort = (*Client)(nil)
