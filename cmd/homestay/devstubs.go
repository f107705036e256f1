package main

import (
	"context"
	"fmt"
	"time"

	"homestay/internal/app/policies"
)

// Dev stubs stand in for the external services when their credentials are
// absent so the server can run locally end to end. They are never wired
// when real configuration is present.

type devPayments struct{}

func (devPayments) Charge(ctx context.Context, amount int64, source, payoutAccountID string) error {
	return nil
}

func (devPayments) ConnectAccount(ctx context.Context, authCode string) (string, error) {
	return "acct_dev_" + authCode, nil
}

func (devPayments) DisconnectAccount(ctx context.Context, payoutAccountID string) error {
	return nil
}

type devIdentity struct{}

func (devIdentity) ExchangeCode(ctx context.Context, authCode string) (policies.Profile, error) {
	return policies.Profile{
		ExternalID: "dev-" + authCode,
		Name:       "Dev Viewer",
		Avatar:     "https://placehold.co/100",
		Email:      fmt.Sprintf("dev-%s@example.com", authCode),
	}, nil
}

type devGeocoder struct{}

func (devGeocoder) Resolve(ctx context.Context, addressText string) (policies.Location, error) {
	return policies.Location{Country: "United States", Admin: "California", City: "San Francisco"}, nil
}

type devAssets struct{}

func (devAssets) Upload(ctx context.Context, base64Image string) (string, error) {
	return fmt.Sprintf("https://placehold.co/listing-%d.jpg", time.Now().UnixNano()), nil
}
