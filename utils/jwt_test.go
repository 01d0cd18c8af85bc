package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	defer viper.Set("JWT_SECRET", "")

	tokenString, err := GenerateAccessToken(42, "alice", 3)
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, float64(3), claims["token_version"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), exp.Time, time.Minute)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	viper.Set("JWT_SECRET", "test-secret")
	defer viper.Set("JWT_SECRET", "")

	tokenString, err := GenerateAccessToken(42, "alice", 0)
	require.NoError(t, err)

	_, err = jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	})
	assert.Error(t, err)
}
