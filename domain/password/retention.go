package password

import (
	"time"

	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/pkg/logger"
)

// Expired-but-unused tokens are inert (never redeemable) but there is no
// reason to keep them around; clear them once they are a day past expiry.
const staleTokenGrace = 24 * time.Hour

// CleanupExpiredCredentials clears long-expired reset tokens and deletes
// expired or revoked refresh tokens. Run via the cleanup subcommand.
func CleanupExpiredCredentials() error {
	log := logger.Get().WithComponent("retention")
	start := time.Now()

	result, err := config.DB.Exec(`
		UPDATE users
		SET password_reset_token = NULL, password_reset_expiry = NULL
		WHERE password_reset_expiry IS NOT NULL AND password_reset_expiry < $1
	`, time.Now().Add(-staleTokenGrace))
	if err != nil {
		log.Error("Failed to clear stale reset tokens", err)
		return err
	}
	tokensCleared, _ := result.RowsAffected()

	result, err = config.DB.Exec(`
		DELETE FROM refresh_tokens
		WHERE expires_at < NOW() OR revoked_at IS NOT NULL
	`)
	if err != nil {
		log.Error("Failed to delete expired refresh tokens", err)
		return err
	}
	sessionsDeleted, _ := result.RowsAffected()

	log.Info("Credential cleanup completed",
		logger.Int64("reset_tokens_cleared", tokensCleared),
		logger.Int64("refresh_tokens_deleted", sessionsDeleted),
		logger.Duration("duration", time.Since(start)),
	)
	return nil
}
