// Package redis stores revoked session tokens so they can be rejected before
// their natural expiry.
package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auth:blacklist:"

type Blacklist struct {
	client *redis.Client
}

func New(ctx context.Context, addr, pass string, db int) (*Blacklist, error) {
	const op = "repository.redis.New"

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     pass,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Blacklist{client: client}, nil
}

// IsRevoked reports whether token was revoked and has not yet aged out.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	const op = "repository.redis.IsRevoked"

	err := b.client.Get(ctx, key(token)).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}

// Revoke blacklists token for ttl, which should cover the token's remaining
// lifetime. No endpoint calls it yet; revocation is done out of band.
func (b *Blacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	const op = "repository.redis.Revoke"

	if err := b.client.Set(ctx, key(token), "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (b *Blacklist) Close() error {
	return b.client.Close()
}

// key hashes the token so raw bearer credentials never sit in Redis.
func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return keyPrefix + hex.EncodeToString(sum[:])
}
