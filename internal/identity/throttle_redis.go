package identity

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle counts failed sign-in attempts per email in a fixed window.
// The counter key expires with the window, so a quiet period clears it.
type LoginThrottle struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func NewLoginThrottle(client *redis.Client, max int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, prefix: "login_attempts:", max: max, window: window}
}

func (t *LoginThrottle) key(email string) string {
	return t.prefix + strings.ToLower(strings.TrimSpace(email))
}

// Blocked reports whether the email has exhausted its attempts for the
// current window. A Redis error fails open so an outage cannot lock
// everyone out.
func (t *LoginThrottle) Blocked(ctx context.Context, email string) bool {
	n, err := t.client.Get(ctx, t.key(email)).Int()
	if err != nil {
		return false
	}
	return n >= t.max
}

// RecordFailure increments the attempt counter and sets the window TTL on
// first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) {
	k := t.key(email)
	n, err := t.client.Incr(ctx, k).Result()
	if err != nil {
		return
	}
	if n == 1 {
		_ = t.client.Expire(ctx, k, t.window).Err()
	}
}

// Reset clears the counter after a successful sign-in.
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	_ = t.client.Del(ctx, t.key(email)).Err()
}
