package helpers

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type revokedEntry struct {
	UserID    string    `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
}

func keyRevokedToken(jti string) string { return "auth:revoked:" + jti }

// TokenDenylist records token ids revoked before their natural expiry.
// Entries expire together with the token they block.
type TokenDenylist struct {
	rdb *redis.Client
}

func NewTokenDenylist(rdb *redis.Client) *TokenDenylist {
	return &TokenDenylist{rdb: rdb}
}

// Revoke blocks jti until exp. Already expired tokens are ignored.
func (d *TokenDenylist) Revoke(ctx context.Context, jti, userID string, exp time.Time) error {
	if jti == "" {
		return errors.New("token has no id")
	}
	ttl := time.Until(exp)
	if ttl <= 0 {
		return nil
	}
	return RedisSetJSON(ctx, d.rdb, keyRevokedToken(jti), revokedEntry{UserID: userID, RevokedAt: time.Now().UTC()}, ttl)
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var e revokedEntry
	return RedisGetJSON(ctx, d.rdb, keyRevokedToken(jti), &e)
}
