package gormstore

import (
	"fmt"

	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/dom/wallet-custody-api/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// addressIndexSQL backs the case-insensitive address lookups. Both dialects
// support expression indexes.
const addressIndexSQL = `CREATE UNIQUE INDEX IF NOT EXISTS idx_wallets_address_lower ON wallets (lower(address))`

func NewConnection(driver, databaseURL string) (*gorm.DB, error) {
	return Open(driver, databaseURL, logger.Default.LogMode(logger.Warn))
}

func Open(driver, databaseURL string, gormLogger logger.Interface) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(databaseURL)
	case DriverSQLite:
		dialector = sqlite.Open(databaseURL)
	default:
		return nil, fmt.Errorf("gormstore.Open: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore.Open: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the users and wallets tables.
func Migrate(db *gorm.DB) error {
	const op = "gormstore.Migrate"

	if err := db.AutoMigrate(&domain.User{}, &domain.Wallet{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := db.Exec(addressIndexSQL).Error; err != nil {
		return fmt.Errorf("%s: address index: %w", op, err)
	}

	return nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:   NewUserRepository(db),
		Wallet: NewWalletRepository(db),
	}
}
