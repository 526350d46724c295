package repository

import (
	"context"
	"errors"

	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// WalletRepository addresses wallets case-insensitively by address.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByAddress(ctx context.Context, address string) (*domain.Wallet, error)
	ExistsByAddress(ctx context.Context, address string) (bool, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error)
}

type Repositories struct {
	User   UserRepository
	Wallet WalletRepository
}
