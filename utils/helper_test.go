package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidUsername(t *testing.T) {
	valid := []string{"alice", "bob-123", "under_score", "abc", "riverside-park"}
	for _, u := range valid {
		assert.True(t, IsValidUsername(u), "username %q should be valid", u)
	}

	invalid := []string{"", "ab", "has space", "émile", "dot.name", "way-too-long-username-over-thirty-chars"}
	for _, u := range invalid {
		assert.False(t, IsValidUsername(u), "username %q should be invalid", u)
	}
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("alice@memoria.app"))
	assert.True(t, IsValidEmail("a.b+c@example.co.uk"))

	assert.False(t, IsValidEmail(""))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@domain"))
}
