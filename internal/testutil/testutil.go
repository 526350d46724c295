package testutil

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dom/wallet-custody-api/internal/api"
	"github.com/dom/wallet-custody-api/internal/config"
	"github.com/dom/wallet-custody-api/internal/repository"
	"github.com/dom/wallet-custody-api/internal/repository/gormstore"
	"github.com/dom/wallet-custody-api/internal/service"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a migrated connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_wallet_custody"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gormstore.Open(gormstore.DriverPostgres, dsn, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	testDB := &TestDB{
		Container: container,
		DB:        db,
		DSN:       dsn,
	}

	t.Cleanup(func() {
		testDB.Cleanup()
	})

	return testDB
}

// Cleanup terminates the container
func (tdb *TestDB) Cleanup() {
	if tdb.Container != nil {
		ctx := context.Background()
		tdb.Container.Terminate(ctx)
	}
}

// Truncate clears all tables for test isolation
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range []string{"wallets", "users"} {
		if err := tdb.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			t.Logf("warning: failed to truncate %s: %v", table, err)
		}
	}
}

// NewSQLiteDB opens a private in-memory SQLite database with the schema applied.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gormstore.Open(gormstore.DriverSQLite, dsn, logger.Default.LogMode(logger.Silent))
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// TestConfig returns a configuration suitable for testing
func TestConfig() *config.Config {
	return &config.Config{
		Port:           "0", // Random port
		Environment:    "test",
		LogLevel:       "error",
		DatabaseDriver: gormstore.DriverSQLite,
		JWTSecret:      "test-jwt-secret-key-for-testing-only",
		JWTExpiry:      15 * time.Minute,
		RefreshSecret:  "test-refresh-secret-key-for-testing-only",
		RefreshExpiry:  time.Hour,
		RPCURL:         "http://127.0.0.1:8545",
		AMQPQueue:      "wallet_events",
		AuthRateLimit:  1000,
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestServer holds all components for integration testing
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Repos    *repository.Repositories
	Services *service.Services
	Chain    *FakeChain
	Events   *RecordingPublisher
	Config   *config.Config
}

// NewTestServer creates a complete test server backed by in-memory SQLite and
// a fake chain.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := NewSQLiteDB(t)
	cfg := TestConfig()
	fakeChain := NewFakeChain()
	publisher := &RecordingPublisher{}
	log := DiscardLogger()

	repos := gormstore.NewRepositories(db)
	services := service.NewServices(repos, cfg, service.Dependencies{
		Chain:  fakeChain,
		Events: publisher,
		Logger: log,
	})
	router := api.NewRouter(services, fakeChain, cfg, log)

	server := httptest.NewServer(router)

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Repos:    repos,
		Services: services,
		Chain:    fakeChain,
		Events:   publisher,
		Config:   cfg,
	}

	t.Cleanup(func() {
		server.Close()
	})

	return ts
}

// URL returns the full URL for a given path
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
