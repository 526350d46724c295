package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dom/wallet-custody-api/internal/domain"
	"github.com/dom/wallet-custody-api/internal/events"
	"github.com/dom/wallet-custody-api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	passwordHashCost = 10
	// bcrypt only looks at the first 72 bytes of a password.
	maxPasswordBytes = 72
)

// dummyPasswordHash is compared against on logins for unknown emails so that
// both failure paths pay for one bcrypt comparison.
var dummyPasswordHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), passwordHashCost)
	if err != nil {
		panic(err)
	}
	return hash
})

type AuthService struct {
	userRepo  repository.UserRepository
	tokens    *TokenIssuer
	blacklist TokenBlacklist
	events    events.Publisher
	log       *slog.Logger

	compareHash func(hash, password []byte) error
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens *TokenIssuer,
	blacklist TokenBlacklist,
	publisher events.Publisher,
	log *slog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokens:    tokens,
		blacklist: blacklist,
		events:    publisher,
		log:       log,

		compareHash: bcrypt.CompareHashAndPassword,
	}
}

type RegisterInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type AuthResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	const op = "service.Auth.Register"

	log := s.log.With(slog.String("op", op))

	if len(input.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrPasswordTooLong)
	}

	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		log.Info("email already registered")
		return nil, fmt.Errorf("%s: %w", op, domain.ErrDuplicateEmail)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("%s: hash password: %w", op, err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration of the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%s: %w", op, domain.ErrDuplicateEmail)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	s.publish(ctx, events.Event{Type: events.UserRegistered, UserID: user.ID.String()})

	return s.authResult(user)
}

// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password so callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	const op = "service.Auth.Login"

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.compareHash(dummyPasswordHash(), []byte(input.Password))
			return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.compareHash([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidCredentials)
	}

	return s.authResult(user)
}

// Refresh mints a new pair for the refresh token's subject. The presented
// refresh token is not rotated out and stays usable until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	const op = "service.Auth.Refresh"

	userID, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		s.log.Debug("refresh token rejected", slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidRefreshToken)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%s: blacklist: %w", op, err)
	}
	if revoked {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidRefreshToken)
	}

	pair, err := s.tokens.IssueTokenPair(userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &pair, nil
}

// Authenticate resolves an access token to its user id. Signature, expiry
// and subject failures, as well as blacklisted tokens, are ErrInvalidToken.
// A blacklist lookup failure is returned unclassified.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (uuid.UUID, error) {
	const op = "service.Auth.Authenticate"

	userID, err := s.tokens.ParseAccessToken(accessToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %v: %w", op, err, domain.ErrInvalidToken)
	}

	revoked, err := s.blacklist.IsRevoked(ctx, accessToken)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: blacklist: %w", op, err)
	}
	if revoked {
		return uuid.Nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidToken)
	}

	return userID, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *AuthService) authResult(user *domain.User) (*AuthResult, error) {
	pair, err := s.tokens.IssueTokenPair(user.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = time.Now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event",
			slog.String("type", string(event.Type)),
			slog.String("err", err.Error()),
		)
	}
}
