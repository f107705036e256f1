package viewer

import (
	"context"

	"homestay/internal/app/commands"
	"homestay/internal/app/policies"
	"homestay/internal/domain/users"
)

const (
	connectWalletKey    = "viewer.connect_wallet"
	disconnectWalletKey = "viewer.disconnect_wallet"
)

type ConnectWalletCommand struct {
	ViewerID string
	AuthCode string
}

func (c ConnectWalletCommand) Key() string { return connectWalletKey }

type DisconnectWalletCommand struct {
	ViewerID string
}

func (c DisconnectWalletCommand) Key() string { return disconnectWalletKey }

type WalletResult struct {
	UserID    string `json:"user_id"`
	HasWallet bool   `json:"has_wallet"`
}

// WalletHandler connects or disconnects the viewer's payout account with
// the payment processor. A host without a connected wallet cannot receive
// bookings.
type WalletHandler struct {
	Users    users.Repository
	Payments policies.PaymentsPort
}

func (h *WalletHandler) Connect(ctx context.Context, cmd ConnectWalletCommand) (*WalletResult, error) {
	user, err := h.Users.ByID(ctx, cmd.ViewerID)
	if err != nil {
		return nil, err
	}
	walletID, err := h.Payments.ConnectAccount(ctx, cmd.AuthCode)
	if err != nil {
		return nil, err
	}
	if err := h.Users.SetWallet(ctx, user.ID, walletID); err != nil {
		return nil, err
	}
	return &WalletResult{UserID: user.ID, HasWallet: true}, nil
}

func (h *WalletHandler) Disconnect(ctx context.Context, cmd DisconnectWalletCommand) (*WalletResult, error) {
	user, err := h.Users.ByID(ctx, cmd.ViewerID)
	if err != nil {
		return nil, err
	}
	if user.WalletID != "" {
		if err := h.Payments.DisconnectAccount(ctx, user.WalletID); err != nil {
			return nil, err
		}
	}
	if err := h.Users.SetWallet(ctx, user.ID, ""); err != nil {
		return nil, err
	}
	return &WalletResult{UserID: user.ID, HasWallet: false}, nil
}

type connectWalletAdapter struct{ h *WalletHandler }

func (a connectWalletAdapter) Handle(ctx context.Context, cmd ConnectWalletCommand) (*WalletResult, error) {
	return a.h.Connect(ctx, cmd)
}

type disconnectWalletAdapter struct{ h *WalletHandler }

func (a disconnectWalletAdapter) Handle(ctx context.Context, cmd DisconnectWalletCommand) (*WalletResult, error) {
	return a.h.Disconnect(ctx, cmd)
}

// ConnectHandler and DisconnectHandler expose the wallet operations as
// bus-registrable command handlers.
func (h *WalletHandler) ConnectHandler() commands.Handler[ConnectWalletCommand, *WalletResult] {
	return connectWalletAdapter{h: h}
}

func (h *WalletHandler) DisconnectHandler() commands.Handler[DisconnectWalletCommand, *WalletResult] {
	return disconnectWalletAdapter{h: h}
}
