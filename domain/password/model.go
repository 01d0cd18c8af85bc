package password

import (
	"errors"
	"time"
)

// Reset token parameters. The token is a bearer credential: 20 bytes of
// entropy hex-encoded, valid for one hour, single-use.
const (
	ResetTokenBytes  = 20
	ResetTokenExpiry = time.Hour
)

var (
	// ErrUserNotFound is returned by Issue when the email has no account.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidOrExpiredToken is returned by Redeem when no user holds the
	// presented token with an unexpired window. Wrong, already-used and
	// expired tokens are deliberately indistinguishable.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired reset token")

	// ErrPasswordUpdateFailed is returned when the freshly written hash does
	// not verify against the new password. The rotation is rolled back.
	ErrPasswordUpdateFailed = errors.New("password update failed")
)

// ResetUser is the subset of the user record the reset flow needs.
type ResetUser struct {
	ID       int64  `db:"id"`
	Email    string `db:"email"`
	Username string `db:"username"`
}

// ForgotPasswordRequest is the body of POST /reset-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of PUT /reset-password.
type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

// IssueResult carries the raw token back to the issuer's caller.
type IssueResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
	Email     string
}
