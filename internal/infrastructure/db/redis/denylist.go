package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist records revoked token IDs in Redis until their natural
// expiry. Key format: revoked:<jti>
type TokenDenylist struct {
	client *redis.Client
}

// NewTokenDenylist creates a TokenDenylist wrapping the given Redis client.
func NewTokenDenylist(client *redis.Client) *TokenDenylist {
	return &TokenDenylist{client: client}
}

// Revoke marks tokenID as revoked. The entry expires after ttlSeconds, which
// callers set to the token's remaining lifetime; a non-positive TTL means
// the token is already expired and nothing needs recording.
func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttlSeconds int64) error {
	if ttlSeconds <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.key(tokenID), "1", time.Duration(ttlSeconds)*time.Second).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("revocation check: %w", err)
	}
	return n > 0, nil
}

func (d *TokenDenylist) key(tokenID string) string {
	return "revoked:" + tokenID
}
