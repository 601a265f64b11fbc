package application

import (
	"strings"
	"unicode"
)

// Phone length bounds, in digits.
const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 15
)

// NormalizePhone validates a typed phone number and returns its digits.
// Whitespace, hyphens, parentheses, and a single leading plus sign are removed;
// what remains must be 10 to 15 ASCII digits.
func NormalizePhone(text string) (string, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '-' || r == '(' || r == ')' {
			return -1
		}
		return r
	}, text)
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) < MinPhoneDigits || len(cleaned) > MaxPhoneDigits {
		return "", false
	}
	if !isDigits(cleaned) {
		return "", false
	}
	return cleaned, true
}

// NormalizeContactPhone normalizes a number taken from a shared contact.
// Shared contacts are trusted, so only non-digits are dropped and no length check applies.
func NormalizeContactPhone(number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
