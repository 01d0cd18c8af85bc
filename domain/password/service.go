package password

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/memoria-app/be-memoria-platform/utils"
)

// Service implements the two halves of the reset protocol: issuance of a
// time-bounded bearer token and its single-use redemption for a credential
// rotation.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Issue generates a fresh reset token for the account behind email and
// persists it with a one-hour expiry, replacing any outstanding token.
func (s *Service) Issue(ctx context.Context, email string) (IssueResult, error) {
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		return IssueResult{}, err
	}

	token, err := generateResetToken()
	if err != nil {
		return IssueResult{}, fmt.Errorf("generate reset token: %w", err)
	}
	expiresAt := s.now().Add(ResetTokenExpiry)

	if err := s.store.SaveResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return IssueResult{}, err
	}

	return IssueResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  user.Username,
		Email:     user.Email,
	}, nil
}

// Redeem exchanges a valid token for a password rotation and returns the
// account's username. The write, its self-verification and the session
// revocation commit atomically; failure leaves the old credential in place.
func (s *Service) Redeem(ctx context.Context, token, newPassword string) (string, error) {
	if token == "" || newPassword == "" {
		return "", ErrInvalidOrExpiredToken
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash new password: %w", err)
	}

	user, err := s.store.RotatePassword(ctx, token, newHash, s.now(), func(stored string) bool {
		return utils.CheckPasswordHash(newPassword, stored)
	})
	if err != nil {
		return "", err
	}

	return user.Username, nil
}

func generateResetToken() (string, error) {
	bytes := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
