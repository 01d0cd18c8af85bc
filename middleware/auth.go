package middleware

import (
	"database/sql"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/memoria-app/be-memoria-platform/config"
	"github.com/spf13/viper"
)

// JWTMiddleware validates the JWT token and extracts user claims
func JWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		jwtSecret := viper.GetString("JWT_SECRET")

		// Extract the token from the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing or invalid token"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		// Check if the token has the correct number of segments
		segments := strings.Split(tokenString, ".")
		if len(segments) != 3 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Malformed token"})
		}

		// Parse and validate the token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			fmt.Println("Invalid or expired token:", err)
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token claims"})
		}

		// Set user claims in the context for downstream handlers
		userID := int64(claims["user_id"].(float64))
		c.Set("user_id", userID)
		c.Set("username", claims["username"].(string))

		// Validate token_version against the database so revoked sessions fail
		if tokenVersionClaim, ok := claims["token_version"]; ok {
			claimVersion := int64(tokenVersionClaim.(float64))
			var dbVersion int64
			err := config.DB.QueryRow("SELECT token_version FROM users WHERE id = $1", userID).Scan(&dbVersion)
			if err != nil {
				if err == sql.ErrNoRows {
					return c.JSON(http.StatusUnauthorized, map[string]string{"error": "User not found."})
				}
				fmt.Println("Error checking token version:", err)
				return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error."})
			}
			if claimVersion != dbVersion {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Session revoked. Please login again."})
			}
		}

		return next(c)
	}
}

// OptionalJWTMiddleware extracts user claims when a valid bearer token is
// present but lets anonymous requests through. Used by endpoints whose
// responses are personalized for logged-in callers (search, profiles, feed).
func OptionalJWTMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return next(c)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(viper.GetString("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			return next(c)
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if id, ok := claims["user_id"].(float64); ok {
				c.Set("user_id", int64(id))
			}
			if username, ok := claims["username"].(string); ok {
				c.Set("username", username)
			}
		}

		return next(c)
	}
}

// UserIDFromContext returns the authenticated user id, or 0 for anonymous
// requests that passed through OptionalJWTMiddleware.
func UserIDFromContext(c echo.Context) int64 {
	if id, ok := c.Get("user_id").(int64); ok {
		return id
	}
	return 0
}
