package utils

import (
	"regexp"
	"strings"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// IsValidUsername checks the handle format: 3-30 chars, letters, digits,
// underscore, hyphen.
func IsValidUsername(username string) bool {
	return usernameRe.MatchString(username)
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}
