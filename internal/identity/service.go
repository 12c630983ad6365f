package identity

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/visualmate/visualmate/backend/admin-service/internal/models"
)

const bcryptCost = 10

// Service is the identity-provider boundary: credentials, sign-in throttling
// and password lifecycle. Profile documents are owned elsewhere; this service
// only answers "who is this" and "may they authenticate".
type Service struct {
	repo     CredentialRepository
	throttle *LoginThrottle
	resets   *ResetTokenStore
	sender   ResetSender
}

// NewService wires the identity service. throttle and resets may be nil in
// tests that do not exercise those paths; sender defaults to LogResetSender.
func NewService(repo CredentialRepository, throttle *LoginThrottle, resets *ResetTokenStore, sender ResetSender) *Service {
	if sender == nil {
		sender = LogResetSender{}
	}
	return &Service{repo: repo, throttle: throttle, resets: resets, sender: sender}
}

// SignIn verifies email+password and returns the credential uid. Failure
// reasons are the sentinel errors ErrTooManyAttempts and
// ErrInvalidCredentials; anything else is an infrastructure error.
func (s *Service) SignIn(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if s.throttle != nil && s.throttle.Blocked(ctx, email) {
		return "", ErrTooManyAttempts
	}
	cred, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("lookup credential: %w", err)
	}
	if cred == nil {
		s.recordFailure(ctx, email)
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, email)
		return "", ErrInvalidCredentials
	}
	if s.throttle != nil {
		s.throttle.Reset(ctx, email)
	}
	return cred.UID, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.throttle != nil {
		s.throttle.RecordFailure(ctx, email)
	}
}

// Reauthenticate checks the current password for the uid. Used before any
// password change.
func (s *Service) Reauthenticate(ctx context.Context, uid, currentPassword string) error {
	cred, err := s.repo.GetByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("lookup credential: %w", err)
	}
	if cred == nil {
		return ErrNoSuchAccount
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(currentPassword)) != nil {
		return ErrWrongCurrentPassword
	}
	return nil
}

// UpdatePassword replaces the stored hash. Weak passwords are rejected
// before any write.
func (s *Service) UpdatePassword(ctx context.Context, uid, newPassword string) error {
	if IsWeakPassword(newPassword) {
		return ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.repo.UpdatePasswordHash(ctx, uid, string(hash))
}

// SendPasswordReset issues a single-use reset token and hands it to the
// configured sender.
func (s *Service) SendPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	cred, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("lookup credential: %w", err)
	}
	if cred == nil {
		return ErrNoSuchAccount
	}
	token, err := s.resets.Issue(ctx, cred.UID)
	if err != nil {
		return fmt.Errorf("issue reset token: %w", err)
	}
	return s.sender.SendReset(ctx, email, token)
}

// ConfirmPasswordReset consumes the token and sets the new password.
func (s *Service) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if IsWeakPassword(newPassword) {
		return ErrWeakPassword
	}
	uid, err := s.resets.Consume(ctx, token)
	if err != nil {
		return err
	}
	return s.UpdatePassword(ctx, uid, newPassword)
}

// CreateUser provisions a credential record and returns its uid.
func (s *Service) CreateUser(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("check existing credential: %w", err)
	}
	if existing != nil {
		return "", ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	cred := &models.Credential{
		UID:          uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, cred); err != nil {
		return "", fmt.Errorf("create credential: %w", err)
	}
	return cred.UID, nil
}

// DeleteUser removes the credential record for the uid.
func (s *Service) DeleteUser(ctx context.Context, uid string) error {
	return s.repo.Delete(ctx, uid)
}
