package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/lib/pq"
	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/middleware"
	"github.com/memoria-app/be-memoria-platform/pkg/apperrors"
	"github.com/memoria-app/be-memoria-platform/pkg/logger"
	"github.com/memoria-app/be-memoria-platform/utils"
)

// User struct for database queries
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	DisplayName  string `db:"display_name"`
	PasswordHash string `db:"password_hash"`
	TokenVersion int64  `db:"token_version"`
}

// SignupHandler creates an account. Credentials travel only in the JSON
// body; there is no query-string creation path.
func SignupHandler(c echo.Context) error {
	log := logger.Get().WithComponent("auth")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(SignupRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if !utils.IsValidUsername(req.Username) {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeInvalidUsername,
			"Username must be 3-30 characters: letters, digits, underscore or hyphen.",
		))
	}
	if !utils.IsValidEmail(req.Email) {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeInvalidEmail,
			"A valid email address is required.",
		))
	}
	if len(req.Password) < 8 {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeInvalidPassword,
			"Password must be at least 8 characters.",
		))
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Error("Failed to hash password", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeHashingError,
			"Internal server error.",
			err,
		))
	}

	var userID int64
	err = config.DB.QueryRow(`
		INSERT INTO users (username, email, display_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id
	`, req.Username, req.Email, req.DisplayName, passwordHash).Scan(&userID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.RespondWithError(c, apperrors.NewConflict(
				apperrors.ErrCodeResourceExists,
				"Username or email already exists.",
			))
		}
		log.Error("Failed to create user", err, logger.Email(req.Email))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Info("User signed up", logger.UserID(userID), logger.Username(req.Username))

	return apperrors.RespondWithCreated(c, UserResponse{
		ID:          userID,
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
}

// LoginHandler handles user login with refresh token support
func LoginHandler(c echo.Context) error {
	log := logger.Get().WithComponent("auth")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(LoginRequest)
	if err := c.Bind(req); err != nil {
		log.Warn("Invalid login request payload", logger.Err(err))
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	now := time.Now()

	// Fetch user from the database
	var user User
	err := config.DB.Get(&user, `
		SELECT id, username, email, display_name, password_hash, token_version
		FROM users WHERE email = $1
	`, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
				apperrors.ErrCodeInvalidCredentials,
				"Invalid email or password.",
			))
		}
		log.Error("Failed to fetch user", err, logger.Email(req.Email))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	// Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		log.Debug("Failed login attempt", logger.Email(req.Email))
		return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
			apperrors.ErrCodeInvalidCredentials,
			"Invalid email or password.",
		))
	}

	// Generate access token
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, user.TokenVersion)
	if err != nil {
		log.Error("Failed to generate access token", err, logger.UserID(user.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}

	// Generate refresh token
	refreshToken, err := GenerateRefreshToken()
	if err != nil {
		log.Error("Failed to generate refresh token", err, logger.UserID(user.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}

	// Calculate expiry based on remember_me
	var expiresAt time.Time
	if req.RememberMe {
		expiresAt = now.Add(RefreshTokenExpiryRememberMe)
	} else {
		expiresAt = now.Add(RefreshTokenExpiry)
	}

	// Store refresh token hash in database
	tokenHash := HashToken(refreshToken)
	userAgent := c.Request().UserAgent()
	ipAddress := c.RealIP()

	_, err = config.DB.Exec(`
		INSERT INTO refresh_tokens (user_id, token_hash, remember_me, expires_at, created_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, tokenHash, req.RememberMe, expiresAt, now, userAgent, ipAddress)
	if err != nil {
		log.Error("Failed to store refresh token", err, logger.UserID(user.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	// Update last login time
	_, err = config.DB.Exec("UPDATE users SET last_login = $1 WHERE id = $2", now, user.ID)
	if err != nil {
		log.Warn("Failed to update last login time", logger.UserID(user.ID), logger.Err(err))
	}

	log.Info("User logged in successfully",
		logger.UserID(user.ID),
		logger.Username(user.Username),
		logger.Bool("remember_me", req.RememberMe),
	)

	response := LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    AccessTokenExpirySeconds,
		TokenType:    "Bearer",
		User: UserResponse{
			ID:          user.ID,
			Username:    user.Username,
			Email:       user.Email,
			DisplayName: user.DisplayName,
		},
	}

	return c.JSON(http.StatusOK, response)
}

// RefreshTokenHandler handles token refresh requests
func RefreshTokenHandler(c echo.Context) error {
	log := logger.Get().WithComponent("auth")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(RefreshTokenRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeValidationFailed,
			"Invalid request payload.",
		))
	}

	if req.RefreshToken == "" {
		return apperrors.RespondWithError(c, apperrors.NewBadRequest(
			apperrors.ErrCodeMissingField,
			"refresh_token is required.",
		))
	}

	tokenHash := HashToken(req.RefreshToken)
	now := time.Now()

	// Find the refresh token
	var storedToken RefreshToken
	err := config.DB.Get(&storedToken, `
		SELECT id, user_id, token_hash, remember_me, expires_at, created_at, revoked_at, replaced_by
		FROM refresh_tokens
		WHERE token_hash = $1
	`, tokenHash)

	if err != nil {
		if err == sql.ErrNoRows {
			log.Warn("Invalid refresh token used")
			return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
				apperrors.ErrCodeRefreshTokenInvalid,
				"Invalid refresh token. Please login again.",
			))
		}
		log.Error("Failed to fetch refresh token", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	// Check if token is revoked
	if storedToken.RevokedAt.Valid {
		// Token reuse detected - this could be a theft attempt.
		// Revoke all tokens for this user for security.
		log.Warn("Refresh token reuse detected - possible token theft",
			logger.UserID(storedToken.UserID),
		)

		_, err = config.DB.Exec(`
			UPDATE refresh_tokens
			SET revoked_at = $1
			WHERE user_id = $2 AND revoked_at IS NULL
		`, now, storedToken.UserID)
		if err != nil {
			log.Error("Failed to revoke all tokens after reuse detection", err, logger.UserID(storedToken.UserID))
		}

		return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
			apperrors.ErrCodeRefreshTokenReused,
			"Token reuse detected. All sessions have been revoked. Please login again.",
		))
	}

	// Check if token is expired
	if storedToken.ExpiresAt.Before(now) {
		log.Debug("Refresh token expired", logger.UserID(storedToken.UserID))
		return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
			apperrors.ErrCodeRefreshTokenExpired,
			"Your session has expired. Please login again.",
		))
	}

	// Get user information
	var user User
	err = config.DB.Get(&user, `
		SELECT id, username, email, display_name, token_version
		FROM users WHERE id = $1
	`, storedToken.UserID)
	if err != nil {
		log.Error("Failed to fetch user for token refresh", err, logger.UserID(storedToken.UserID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	// Generate new access token
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, user.TokenVersion)
	if err != nil {
		log.Error("Failed to generate access token", err, logger.UserID(user.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}

	// Generate new refresh token (rotation)
	newRefreshToken, err := GenerateRefreshToken()
	if err != nil {
		log.Error("Failed to generate refresh token", err, logger.UserID(user.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeUnexpectedError,
			"Internal server error.",
			err,
		))
	}

	// Calculate new expiry - sliding expiration for remember_me
	var newExpiresAt time.Time
	if storedToken.RememberMe {
		newExpiresAt = now.Add(RefreshTokenExpiryRememberMe)
	} else {
		// For non-remember_me, keep the original expiry (no extension)
		newExpiresAt = storedToken.ExpiresAt
	}

	newTokenHash := HashToken(newRefreshToken)
	userAgent := c.Request().UserAgent()
	ipAddress := c.RealIP()

	// Start transaction for token rotation
	tx, err := config.DB.Begin()
	if err != nil {
		log.Error("Failed to start transaction for token rotation", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}
	defer tx.Rollback()

	// Insert new refresh token
	var newTokenID int64
	err = tx.QueryRow(`
		INSERT INTO refresh_tokens (user_id, token_hash, remember_me, expires_at, created_at, user_agent, ip_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, user.ID, newTokenHash, storedToken.RememberMe, newExpiresAt, now, userAgent, ipAddress).Scan(&newTokenID)
	if err != nil {
		log.Error("Failed to insert new refresh token", err, logger.UserID(user.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	// Revoke old token and set replaced_by
	_, err = tx.Exec(`
		UPDATE refresh_tokens
		SET revoked_at = $1, replaced_by = $2
		WHERE id = $3
	`, now, newTokenID, storedToken.ID)
	if err != nil {
		log.Error("Failed to revoke old refresh token", err, logger.UserID(user.ID))
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	if err := tx.Commit(); err != nil {
		log.Error("Failed to commit token rotation transaction", err)
		return apperrors.RespondWithError(c, apperrors.NewInternal(
			apperrors.ErrCodeDatabaseError,
			"Internal server error.",
			err,
		))
	}

	log.Debug("Token refreshed successfully", logger.UserID(user.ID))

	response := RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    AccessTokenExpirySeconds,
		TokenType:    "Bearer",
	}

	return c.JSON(http.StatusOK, response)
}

// LogoutHandler handles user logout
func LogoutHandler(c echo.Context) error {
	log := logger.Get().WithComponent("auth")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	userID := middleware.UserIDFromContext(c)
	if userID == 0 {
		return apperrors.RespondWithError(c, apperrors.NewUnauthorized(
			apperrors.ErrCodeTokenInvalid,
			"Authentication required.",
		))
	}
	log = log.WithUserID(userID)

	req := new(LogoutRequest)
	if err := c.Bind(req); err != nil {
		// If no body provided, just revoke all tokens for the user
		req = &LogoutRequest{}
	}

	now := time.Now()

	if req.RefreshToken != "" {
		// Revoke specific refresh token
		tokenHash := HashToken(req.RefreshToken)
		_, err := config.DB.Exec(`
			UPDATE refresh_tokens
			SET revoked_at = $1
			WHERE token_hash = $2 AND user_id = $3
		`, now, tokenHash, userID)
		if err != nil {
			log.Error("Failed to revoke refresh token", err)
			return apperrors.RespondWithError(c, apperrors.NewInternal(
				apperrors.ErrCodeDatabaseError,
				"Internal server error.",
				err,
			))
		}
		log.Info("Single session logout")
	} else {
		// Revoke all refresh tokens for this user
		_, err := config.DB.Exec(`
			UPDATE refresh_tokens
			SET revoked_at = $1
			WHERE user_id = $2 AND revoked_at IS NULL
		`, now, userID)
		if err != nil {
			log.Error("Failed to revoke all refresh tokens", err)
			return apperrors.RespondWithError(c, apperrors.NewInternal(
				apperrors.ErrCodeDatabaseError,
				"Internal server error.",
				err,
			))
		}
		log.Info("All sessions logout")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Successfully logged out."})
}

// GenerateRefreshToken generates a cryptographically secure random token
func GenerateRefreshToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken creates a SHA256 hash of the token for storage
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}
