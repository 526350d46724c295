package service

import (
	"io"
	"log/slog"

	"github.com/dom/wallet-custody-api/internal/config"
	"github.com/dom/wallet-custody-api/internal/events"
	"github.com/dom/wallet-custody-api/internal/repository"
)

// Dependencies are the collaborators built in main. Nil Blacklist, Events
// and Logger fall back to no-op implementations.
type Dependencies struct {
	Chain     Chain
	Blacklist TokenBlacklist
	Events    events.Publisher
	Logger    *slog.Logger
}

type Services struct {
	Auth   *AuthService
	Wallet *WalletService
	Tokens *TokenIssuer
}

func NewServices(repos *repository.Repositories, cfg *config.Config, deps Dependencies) *Services {
	if deps.Blacklist == nil {
		deps.Blacklist = noopBlacklist{}
	}
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	tokens := NewTokenIssuer(cfg)

	return &Services{
		Auth:   NewAuthService(repos.User, tokens, deps.Blacklist, deps.Events, deps.Logger),
		Wallet: NewWalletService(repos.Wallet, deps.Chain, deps.Events, deps.Logger),
		Tokens: tokens,
	}
}
