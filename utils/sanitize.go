package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// SanitizeUserContent strips disallowed markup from user-authored text
// (posts, comments, bios) before it is stored.
func SanitizeUserContent(s string) string {
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}
