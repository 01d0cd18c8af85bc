package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("incorrect horse", hash))
}

func TestHashPasswordFormat(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("secret")
	require.NoError(t, err)
	second, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("secret", first))
	assert.True(t, CheckPasswordHash("secret", second))
}

func TestCheckPasswordHashMalformed(t *testing.T) {
	cases := []string{
		"",
		"not-a-phc-string",
		"$argon2id$v=19$m=19456,t=2,p=1$onlysalt",
		"$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
	}
	for _, hash := range cases {
		assert.False(t, CheckPasswordHash("secret", hash), "hash %q should not verify", hash)
	}
}

func TestCheckPasswordHashEmptyPassword(t *testing.T) {
	hash, err := HashPassword("")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("", hash))
	assert.False(t, CheckPasswordHash("anything", hash))
}
