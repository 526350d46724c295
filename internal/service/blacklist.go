package service

import "context"

// TokenBlacklist is consulted after a token's signature and expiry check.
// Tokens are stateless, so this is the only place revocation can hook in.
type TokenBlacklist interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

type noopBlacklist struct{}

func (noopBlacklist) IsRevoked(context.Context, string) (bool, error) { return false, nil }
