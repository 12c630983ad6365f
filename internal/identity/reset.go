package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/visualmate/visualmate/backend/admin-service/pkg/logger"
)

// ResetSender delivers a password-reset token to the account holder. Email
// delivery is outside this service; deployments plug in their own sender.
type ResetSender interface {
	SendReset(ctx context.Context, email, token string) error
}

// LogResetSender writes the token to the service log. It is the default
// sender for development environments.
type LogResetSender struct{}

func (LogResetSender) SendReset(ctx context.Context, email, token string) error {
	logger.Info().Str("email", email).Str("token", token).Msg("password reset token issued")
	return nil
}

// ResetTokenStore keeps single-use password-reset tokens in Redis, keyed by
// token with the uid as payload.
type ResetTokenStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewResetTokenStore(client *redis.Client, ttl time.Duration) *ResetTokenStore {
	return &ResetTokenStore{client: client, prefix: "pwreset:", ttl: ttl}
}

// Issue creates a fresh token bound to the uid.
func (s *ResetTokenStore) Issue(ctx context.Context, uid string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	if err := s.client.Set(ctx, s.prefix+token, uid, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Consume resolves the token to a uid and deletes it so it cannot be reused.
func (s *ResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	k := s.prefix + token
	uid, err := s.client.Get(ctx, k).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrInvalidResetToken
		}
		return "", err
	}
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return "", err
	}
	return uid, nil
}
