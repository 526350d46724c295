package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/dom/wallet-custody-api/internal/chain"
	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/dom/wallet-custody-api/internal/events"
	"github.com/dom/wallet-custody-api/internal/metrics"
	"github.com/dom/wallet-custody-api/internal/repository"
	"github.com/google/uuid"
)

const SendNotImplementedMessage = "Send transaction endpoint not implemented yet."

// Chain is the blockchain collaborator used for key handling and balances.
type Chain interface {
	NewKeypair() (chain.Keypair, error)
	AddressFromPrivateKey(privateKey string) (string, error)
	IsValidAddress(address string) bool
	BalanceAt(ctx context.Context, address string) (*big.Int, error)
}

type WalletService struct {
	walletRepo repository.WalletRepository
	chain      Chain
	events     events.Publisher
	log        *slog.Logger
}

func NewWalletService(
	walletRepo repository.WalletRepository,
	chainClient Chain,
	publisher events.Publisher,
	log *slog.Logger,
) *WalletService {
	return &WalletService{
		walletRepo: walletRepo,
		chain:      chainClient,
		events:     publisher,
		log:        log,
	}
}

// CreatedWallet is the only place a private key leaves the service.
type CreatedWallet struct {
	Address    string `json:"address"`
	PrivateKey string `json:"privateKey"`
}

type ImportWalletInput struct {
	OwnerID    uuid.UUID
	Address    string
	PrivateKey string
}

type ImportedWallet struct {
	Address string `json:"address"`
}

type WalletSummary struct {
	ID        uint      `json:"id"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

type Balance struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

func (s *WalletService) Create(ctx context.Context, ownerID uuid.UUID) (*CreatedWallet, error) {
	const op = "service.Wallet.Create"

	log := s.log.With(slog.String("op", op))

	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}

	keypair, err := s.chain.NewKeypair()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := s.walletRepo.ExistsByAddress(ctx, keypair.Address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		log.Warn("generated address already in custody", slog.String("address", keypair.Address))
		return nil, fmt.Errorf("%s: %w", op, domain.ErrWalletExists)
	}

	wallet := &domain.Wallet{
		Address:    keypair.Address,
		PrivateKey: keypair.PrivateKey,
		UserID:     ownerID,
		CreatedAt:  time.Now(),
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrWalletExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("wallet created",
		slog.String("user_id", ownerID.String()),
		slog.String("address", wallet.Address),
	)
	metrics.WalletCustodied("create")
	s.publish(ctx, events.Event{Type: events.WalletCreated, UserID: ownerID.String(), Address: wallet.Address})

	return &CreatedWallet{Address: keypair.Address, PrivateKey: keypair.PrivateKey}, nil
}

// Import takes an existing key into custody. The address is stored exactly as
// supplied once it is proven to belong to the key.
func (s *WalletService) Import(ctx context.Context, input ImportWalletInput) (*ImportedWallet, error) {
	const op = "service.Wallet.Import"

	log := s.log.With(slog.String("op", op))

	if input.OwnerID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}
	if input.Address == "" || input.PrivateKey == "" {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrMissingWalletFields)
	}

	exists, err := s.walletRepo.ExistsByAddress(ctx, input.Address)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if exists {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrWalletImported)
	}

	derived, err := s.chain.AddressFromPrivateKey(input.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("%s: %v: %w", op, err, domain.ErrInvalidPrivateKey)
	}
	if !strings.EqualFold(derived, input.Address) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrAddressMismatch)
	}

	wallet := &domain.Wallet{
		Address:    input.Address,
		PrivateKey: input.PrivateKey,
		UserID:     input.OwnerID,
		CreatedAt:  time.Now(),
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrWalletImported)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("wallet imported",
		slog.String("user_id", input.OwnerID.String()),
		slog.String("address", wallet.Address),
	)
	metrics.WalletCustodied("import")
	s.publish(ctx, events.Event{Type: events.WalletImported, UserID: input.OwnerID.String(), Address: wallet.Address})

	return &ImportedWallet{Address: wallet.Address}, nil
}

func (s *WalletService) List(ctx context.Context, ownerID uuid.UUID) ([]WalletSummary, error) {
	const op = "service.Wallet.List"

	if ownerID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}

	wallets, err := s.walletRepo.ListByUserID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summaries := make([]WalletSummary, 0, len(wallets))
	for _, w := range wallets {
		summaries = append(summaries, WalletSummary{
			ID:        w.ID,
			Address:   w.Address,
			CreatedAt: w.CreatedAt,
		})
	}

	return summaries, nil
}

// Balance looks up any valid address on chain. Custody of the address is not
// required.
func (s *WalletService) Balance(ctx context.Context, address string) (*Balance, error) {
	const op = "service.Wallet.Balance"

	if address == "" {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrAddressRequired)
	}
	if !s.chain.IsValidAddress(address) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidAddress)
	}

	wei, err := s.chain.BalanceAt(ctx, address)
	if err != nil {
		metrics.ChainRPCError("eth_getBalance")
		s.log.Error("balance lookup failed",
			slog.String("op", op),
			slog.String("address", address),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Balance{Address: address, Balance: chain.FormatEther(wei)}, nil
}

func (s *WalletService) SendTransaction(context.Context) string {
	return SendNotImplementedMessage
}

func (s *WalletService) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("type", string(event.Type)),
			slog.String("err", err.Error()),
		)
	}
}
