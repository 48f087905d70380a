// Package textx provides small text utilities used across the project.
package textx

import (
	"strings"
	"unicode/utf8"
)

// SanitizeText removes control characters except tab/newline/CR and trims spaces.
func SanitizeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Or returns the sanitized value of s, or fallback when s is nil or blank.
func Or(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	v := SanitizeText(*s)
	if v == "" {
		return fallback
	}
	return v
}

// OrEmpty is Or with an empty fallback.
func OrEmpty(s *string) string { return Or(s, "") }

// Len counts characters, not bytes.
func Len(s string) int { return utf8.RuneCountInString(s) }
