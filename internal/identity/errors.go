package identity

import "errors"

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrTooManyAttempts is returned when sign-in is throttled for the email.
	ErrTooManyAttempts = errors.New("too many sign-in attempts")
	// ErrWrongCurrentPassword is returned when reauthentication fails.
	ErrWrongCurrentPassword = errors.New("current password is incorrect")
	// ErrWeakPassword is returned when a new password fails the strength check.
	ErrWeakPassword = errors.New("password does not meet strength requirements")
	// ErrNoSuchAccount is returned when no credential exists for the email.
	ErrNoSuchAccount = errors.New("no account for that email")
	// ErrInvalidEmail is returned when the email address is malformed.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrInvalidResetToken is returned when a reset token is unknown or spent.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrEmailTaken is returned when provisioning an already registered email.
	ErrEmailTaken = errors.New("email already registered")
)
