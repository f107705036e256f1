package viewer

import (
	"context"
	"errors"
	"time"

	"homestay/internal/app/commands"
	"homestay/internal/app/policies"
	"homestay/internal/domain/users"
)

const signInKey = "viewer.sign_in"

var ErrSignInFailed = errors.New("viewer: sign in could not be completed")

type SignInCommand struct {
	AuthCode string
}

func (c SignInCommand) Key() string { return signInKey }

type SignInResult struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
	Avatar string `json:"avatar"`
}

// SignInHandler exchanges the OAuth code with the identity provider,
// upserts the user record, and mints a session token.
type SignInHandler struct {
	Users    users.Repository
	Identity policies.IdentityPort
	Tokens   policies.TokenIssuer
	Now      func() time.Time
}

func (h *SignInHandler) Handle(ctx context.Context, cmd SignInCommand) (*SignInResult, error) {
	profile, err := h.Identity.ExchangeCode(ctx, cmd.AuthCode)
	if err != nil {
		return nil, err
	}
	if profile.ExternalID == "" || profile.Email == "" {
		return nil, ErrSignInFailed
	}

	user, err := h.Users.ByID(ctx, profile.ExternalID)
	switch {
	case errors.Is(err, users.ErrNotFound):
		user = &users.User{
			ID:        profile.ExternalID,
			Name:      profile.Name,
			Avatar:    profile.Avatar,
			Contact:   profile.Email,
			CreatedAt: h.now(),
		}
	case err != nil:
		return nil, err
	default:
		user.Name = profile.Name
		user.Avatar = profile.Avatar
		user.Contact = profile.Email
	}
	if err := h.Users.Save(ctx, user); err != nil {
		return nil, err
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &SignInResult{UserID: user.ID, Token: token, Avatar: user.Avatar}, nil
}

func (h *SignInHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

var _ commands.Handler[SignInCommand, *SignInResult] = (*SignInHandler)(nil)
