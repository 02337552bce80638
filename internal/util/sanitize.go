package util

import (
	"html"
	"strings"
)

// SanitizeInput trims whitespace and escapes HTML/script-like characters
// before free-text values are persisted or echoed back.
func SanitizeInput(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}
