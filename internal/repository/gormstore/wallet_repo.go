package gormstore

import (
	"context"

	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *walletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) Create(ctx context.Context, wallet *domain.Wallet) error {
	return translate(r.db.WithContext(ctx).Create(wallet).Error)
}

func (r *walletRepository) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := r.db.WithContext(ctx).First(&wallet, "lower(address) = lower(?)", address).Error
	if err != nil {
		return nil, translate(err)
	}
	return &wallet, nil
}

func (r *walletRepository) ExistsByAddress(ctx context.Context, address string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Wallet{}).
		Where("lower(address) = lower(?)", address).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *walletRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Wallet, error) {
	var wallets []*domain.Wallet
	err := r.db.WithContext(ctx).
		Select("id", "address", "user_id", "created_at").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&wallets).Error
	if err != nil {
		return nil, translate(err)
	}
	return wallets, nil
}
