package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/dom/wallet-custody-api/internal/events"
	"github.com/dom/wallet-custody-api/internal/repository/gormstore"
	"github.com/dom/wallet-custody-api/internal/service"
	"github.com/dom/wallet-custody-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubBlacklist struct {
	revoked map[string]bool
	err     error
}

func (b *stubBlacklist) IsRevoked(_ context.Context, token string) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	return b.revoked[token], nil
}

type authFixture struct {
	db        *gorm.DB
	auth      *service.AuthService
	blacklist *stubBlacklist
	events    *testutil.RecordingPublisher
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	db := testutil.NewSQLiteDB(t)
	repos := gormstore.NewRepositories(db)
	blacklist := &stubBlacklist{revoked: map[string]bool{}}
	publisher := &testutil.RecordingPublisher{}

	services := service.NewServices(repos, testutil.TestConfig(), service.Dependencies{
		Chain:     testutil.NewFakeChain(),
		Blacklist: blacklist,
		Events:    publisher,
		Logger:    testutil.DiscardLogger(),
	})

	return &authFixture{
		db:        db,
		auth:      services.Auth,
		blacklist: blacklist,
		events:    publisher,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func(t *testing.T, db *gorm.DB)
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				Email:    "alice@example.com",
				Password: "password123",
			},
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				Email:    "taken@example.com",
				Password: "password123",
			},
			setup: func(t *testing.T, db *gorm.DB) {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, db)
			},
			wantErr: domain.ErrDuplicateEmail,
		},
		{
			name: "password longer than 72 bytes",
			input: service.RegisterInput{
				Email:    "long@example.com",
				Password: strings.Repeat("a", 73),
			},
			wantErr: domain.ErrPasswordTooLong,
		},
		{
			name: "password of exactly 72 bytes",
			input: service.RegisterInput{
				Email:    "edge@example.com",
				Password: strings.Repeat("a", 72),
			},
		},
		{
			name: "email differing only in case is a different account",
			input: service.RegisterInput{
				Email:    "Taken@example.com",
				Password: "password123",
			},
			setup: func(t *testing.T, db *gorm.DB) {
				testutil.NewUserBuilder().WithEmail("taken@example.com").Build(t, db)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			if tt.setup != nil {
				tt.setup(t, f.db)
			}

			result, err := f.auth.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.events.Events())
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, result.User.ID)
			assert.Equal(t, tt.input.Email, result.User.Email)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)

			// The stored hash verifies against the original password.
			assert.NotEqual(t, tt.input.Password, result.User.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte(tt.input.Password)))

			cost, err := bcrypt.Cost([]byte(result.User.PasswordHash))
			require.NoError(t, err)
			assert.Equal(t, 10, cost)

			published := f.events.Events()
			require.Len(t, published, 1)
			assert.Equal(t, events.UserRegistered, published[0].Type)
			assert.Equal(t, result.User.ID.String(), published[0].UserID)
		})
	}
}

func TestAuthService_Register_PublishFailureDoesNotFail(t *testing.T) {
	f := newAuthFixture(t)
	f.events.Err = errors.New("broker down")

	result, err := f.auth.Register(context.Background(), service.RegisterInput{
		Email:    "bob@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	user, password := testutil.NewUserBuilder().WithEmail("carol@example.com").Build(t, f.db)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name:  "valid credentials",
			input: service.LoginInput{Email: "carol@example.com", Password: password},
		},
		{
			name:    "wrong password",
			input:   service.LoginInput{Email: "carol@example.com", Password: "wrongpassword"},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			input:   service.LoginInput{Email: "nobody@example.com", Password: password},
			wantErr: domain.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.auth.Login(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}
}

func TestAuthService_Login_UnknownEmailStillComparesHash(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, password := testutil.NewUserBuilder().WithEmail("erin@example.com").Build(t, f.db)

	var compared []string
	f.auth.SetHashComparer(func(hash, pw []byte) error {
		compared = append(compared, string(pw))
		return bcrypt.CompareHashAndPassword(hash, pw)
	})

	_, err := f.auth.Login(ctx, service.LoginInput{Email: "nobody@example.com", Password: "guess-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, service.LoginInput{Email: "erin@example.com", Password: "guess-2"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = f.auth.Login(ctx, service.LoginInput{Email: "erin@example.com", Password: password})
	require.NoError(t, err)

	assert.Equal(t, []string{"guess-1", "guess-2", password}, compared)
}

func TestAuthService_Refresh(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, service.RegisterInput{Email: "dave@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("valid refresh token", func(t *testing.T) {
		pair, err := f.auth.Refresh(ctx, registered.RefreshToken)
		require.NoError(t, err)

		userID, err := f.auth.Authenticate(ctx, pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, userID)
	})

	t.Run("refresh token stays usable", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, registered.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, registered.AccessToken)
		assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := f.auth.Refresh(ctx, "garbage")
		assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
	})

	t.Run("blacklisted refresh token", func(t *testing.T) {
		f.blacklist.revoked[registered.RefreshToken] = true
		defer delete(f.blacklist.revoked, registered.RefreshToken)

		_, err := f.auth.Refresh(ctx, registered.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidRefreshToken)
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	registered, err := f.auth.Register(ctx, service.RegisterInput{Email: "erin@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("valid access token", func(t *testing.T) {
		userID, err := f.auth.Authenticate(ctx, registered.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, userID)
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		_, err := f.auth.Authenticate(ctx, registered.RefreshToken)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
		assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	})

	t.Run("blacklisted token rejected", func(t *testing.T) {
		f.blacklist.revoked[registered.AccessToken] = true
		defer delete(f.blacklist.revoked, registered.AccessToken)

		_, err := f.auth.Authenticate(ctx, registered.AccessToken)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("blacklist failure is an upstream error", func(t *testing.T) {
		f.blacklist.err = errors.New("redis unavailable")
		defer func() { f.blacklist.err = nil }()

		_, err := f.auth.Authenticate(ctx, registered.AccessToken)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrInvalidToken)
		assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
	})
}
