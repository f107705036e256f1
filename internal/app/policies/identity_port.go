package policies

import "context"

// Profile is what the external identity provider knows about a signed-in
// account.
type Profile struct {
	ExternalID string
	Name       string
	Avatar     string
	Email      string
}

// IdentityPort exchanges an OAuth authorization code for the account
// profile.
type IdentityPort interface {
	ExchangeCode(ctx context.Context, authCode string) (Profile, error)
}

// TokenIssuer mints and verifies session tokens for signed-in viewers.
type TokenIssuer interface {
	Issue(userID string) (string, error)
	Verify(token string) (userID string, err error)
}
