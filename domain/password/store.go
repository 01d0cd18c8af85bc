package password

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store is the persistence surface of the reset flow. The user row is the
// only shared mutable resource; both mutations are single conditional
// statements so concurrent callers race safely (last-writer-wins on issue,
// at-most-one winner on redeem).
type Store interface {
	// UserByEmail resolves the issuance target. Returns ErrUserNotFound.
	UserByEmail(ctx context.Context, email string) (ResetUser, error)

	// SaveResetToken overwrites any outstanding token for the user.
	SaveResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error

	// RotatePassword writes the new hash and clears the token in one
	// conditional update guarded by the presented token and its expiry.
	// The stored hash is re-read inside the same transaction and passed to
	// check; a false return rolls everything back and yields
	// ErrPasswordUpdateFailed. Zero matched rows yield
	// ErrInvalidOrExpiredToken.
	RotatePassword(ctx context.Context, token, newHash string, now time.Time, check func(stored string) bool) (ResetUser, error)
}

// SQLStore implements Store against Postgres.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) UserByEmail(ctx context.Context, email string) (ResetUser, error) {
	var user ResetUser
	err := s.db.GetContext(ctx, &user,
		"SELECT id, email, username FROM users WHERE email = $1", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return ResetUser{}, ErrUserNotFound
		}
		return ResetUser{}, fmt.Errorf("fetch user by email: %w", err)
	}
	return user, nil
}

func (s *SQLStore) SaveResetToken(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET password_reset_token = $1, password_reset_expiry = $2, updated_at = NOW()
		WHERE id = $3
	`, token, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	return nil
}

func (s *SQLStore) RotatePassword(ctx context.Context, token, newHash string, now time.Time, check func(stored string) bool) (ResetUser, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return ResetUser{}, fmt.Errorf("begin rotation: %w", err)
	}
	defer tx.Rollback()

	// Compare-and-clear: the token guard in the WHERE clause means at most
	// one concurrent redeemer can match; everyone else observes zero rows.
	var user ResetUser
	var stored string
	err = tx.QueryRowxContext(ctx, `
		UPDATE users
		SET password_hash = $1,
		    password_reset_token = NULL,
		    password_reset_expiry = NULL,
		    token_version = token_version + 1,
		    updated_at = NOW()
		WHERE password_reset_token = $2 AND password_reset_expiry > $3
		RETURNING id, email, username, password_hash
	`, newHash, token, now).Scan(&user.ID, &user.Email, &user.Username, &stored)
	if err != nil {
		if err == sql.ErrNoRows {
			return ResetUser{}, ErrInvalidOrExpiredToken
		}
		return ResetUser{}, fmt.Errorf("rotate password: %w", err)
	}

	// Self-verify the stored hash before committing; a mismatch aborts the
	// whole rotation instead of leaving a hash the caller was told failed.
	if !check(stored) {
		return ResetUser{}, ErrPasswordUpdateFailed
	}

	// Force re-login everywhere after a credential rotation.
	if _, err := tx.ExecContext(ctx, `
		UPDATE refresh_tokens
		SET revoked_at = $1
		WHERE user_id = $2 AND revoked_at IS NULL
	`, now, user.ID); err != nil {
		return ResetUser{}, fmt.Errorf("revoke sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return ResetUser{}, fmt.Errorf("commit rotation: %w", err)
	}
	return user, nil
}
