package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUserContent(t *testing.T) {
	assert.Equal(t, "hello world", SanitizeUserContent("hello world"))
	assert.Equal(t, "hello", SanitizeUserContent(`<script>alert(1)</script>hello`))
	assert.Equal(t, "<b>bold</b>", SanitizeUserContent("<b>bold</b>"))
	assert.Equal(t, "click", SanitizeUserContent(`<a href="javascript:alert(1)">click</a>`))
	assert.Equal(t, "padded", SanitizeUserContent("  padded  "))
}
