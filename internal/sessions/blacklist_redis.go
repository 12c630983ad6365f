package sessions

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logout revokes access tokens before they expire by parking them in a
// Redis set-with-TTL. Without a configured client every token stays valid
// until its own exp claim, which is acceptable for local development.
var blacklistClient *redis.Client

const blacklistKeyPrefix = "blacklist:access:"

// SetBlacklistClient wires the Redis client used for token revocation.
// Passing nil turns revocation off.
func SetBlacklistClient(c *redis.Client) {
	blacklistClient = c
}

// BlacklistAccessToken marks a token revoked for ttl, which callers set to
// the token's remaining lifetime. No-op without a configured client.
func BlacklistAccessToken(ctx context.Context, token string, ttl time.Duration) error {
	if blacklistClient == nil {
		return nil
	}
	return blacklistClient.Set(ctx, blacklistKeyPrefix+token, "1", ttl).Err()
}

// IsAccessTokenBlacklisted reports whether a token has been revoked.
// Always false without a configured client.
func IsAccessTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	if blacklistClient == nil {
		return false, nil
	}
	exists, err := blacklistClient.Exists(ctx, blacklistKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}
