package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

const AccessTokenExpiry = 15 * time.Minute

// GenerateAccessToken creates a signed JWT for the user. token_version is
// checked against the users row on every request so bumping it revokes all
// outstanding access tokens at once.
func GenerateAccessToken(userID int64, username string, tokenVersion int64) (string, error) {
	jwtSecret := viper.GetString("JWT_SECRET")

	claims := jwt.MapClaims{
		"user_id":       userID,
		"username":      username,
		"token_version": tokenVersion,
		"exp":           time.Now().Add(AccessTokenExpiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
