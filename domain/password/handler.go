package password

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/memoria-app/be-memoria-platform/pkg"
	"github.com/memoria-app/be-memoria-platform/pkg/logger"
)

var newService = func() *Service {
	return NewService(NewSQLStore(config.DB))
}

// ForgotPasswordHandler issues a reset token for the account behind the
// submitted email. POST /reset-password
func ForgotPasswordHandler(c echo.Context) error {
	log := logger.Get().WithComponent("password")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(ForgotPasswordRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid request payload",
		})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Email is required",
		})
	}

	result, err := newService().Issue(c.Request().Context(), req.Email)
	if err != nil {
		if err == ErrUserNotFound {
			// Reveals whether the email is registered; kept as the documented
			// policy choice rather than a uniform acknowledgment.
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   "User not found",
			})
		}
		log.Error("Failed to issue reset token", err, logger.Email(req.Email))
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Internal server error",
		})
	}

	// Out-of-band delivery is best effort; the token is still returned in
	// the response body per the wire contract.
	emailBody := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px;">
			<h2>Password Reset</h2>
			<p>You have requested to reset your Memoria password.</p>
			<p>Your reset token is:</p>
			<div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 18px; font-weight: bold; margin: 20px 0;">
				%s
			</div>
			<p>This token will expire in 1 hour.</p>
			<p>If you did not request this password reset, please ignore this email.</p>
		</div>
	`, result.Token)
	if err := pkg.SendEmailViaResend(result.Email, "Memoria Password Reset", emailBody); err != nil {
		log.Warn("Failed to send reset email", logger.Email(result.Email), logger.Err(err))
	}

	log.Info("Reset token issued", logger.Username(result.Username))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"resetToken": result.Token,
		"username":   result.Username,
		"message":    "Reset token created successfully",
	})
}

// ResetPasswordHandler redeems a reset token for a credential rotation.
// PUT /reset-password
func ResetPasswordHandler(c echo.Context) error {
	log := logger.Get().WithComponent("password")
	log = log.WithRequestID(logger.GetRequestIDFromContext(c))

	req := new(ResetPasswordRequest)
	if err := c.Bind(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Invalid request payload",
		})
	}
	if req.ResetToken == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Reset token and new password are required",
		})
	}

	username, err := newService().Redeem(c.Request().Context(), req.ResetToken, req.NewPassword)
	if err != nil {
		switch err {
		case ErrInvalidOrExpiredToken:
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"success": false,
				"error":   "Invalid or expired reset token",
			})
		case ErrPasswordUpdateFailed:
			log.Error("Stored hash failed self-verification, rotation rolled back", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   "Failed to update password. Please try again.",
			})
		default:
			log.Error("Failed to redeem reset token", err)
			return c.JSON(http.StatusInternalServerError, map[string]interface{}{
				"success": false,
				"error":   "Internal server error",
			})
		}
	}

	log.Info("Password rotated via reset token", logger.Username(username))

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"username": username,
		"message":  fmt.Sprintf("Password updated successfully. Please login with username: %s", username),
	})
}

// LookupUsernameHandler returns the login handle for an email so the reset
// form can tell the user who they will sign in as. GET /reset-password?email=
func LookupUsernameHandler(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Email is required",
		})
	}

	var username string
	err := config.DB.Get(&username, "SELECT username FROM users WHERE email = $1", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   "User not found",
			})
		}
		logger.Get().WithComponent("password").Error("Failed to look up username", err, logger.Email(email))
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success": false,
			"error":   "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"username": username,
	})
}
