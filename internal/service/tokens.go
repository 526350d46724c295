package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/dom/wallet-custody-api/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errBadSubject = errors.New("token subject is not a user id")

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// TokenIssuer signs and verifies the stateless access/refresh JWTs. Each kind
// has its own secret so one can never be accepted in place of the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.JWTSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.JWTExpiry,
		refreshTTL:    cfg.RefreshExpiry,
		now:           time.Now,
	}
}

// WithClock replaces the time source used for both signing and verification.
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	t.now = now
	return t
}

func (t *TokenIssuer) IssueTokenPair(userID uuid.UUID) (TokenPair, error) {
	accessToken, err := t.sign(userID, t.accessSecret, t.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := t.sign(userID, t.refreshSecret, t.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (t *TokenIssuer) ParseAccessToken(token string) (uuid.UUID, error) {
	return t.parse(token, t.accessSecret)
}

func (t *TokenIssuer) ParseRefreshToken(token string) (uuid.UUID, error) {
	return t.parse(token, t.refreshSecret)
}

func (t *TokenIssuer) sign(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (t *TokenIssuer) parse(token string, secret []byte) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return uuid.Nil, errBadSubject
	}

	return userID, nil
}
