package utils

import (
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	MaxAboutLength = 500
	MaxNameLength  = 20
	MinAge         = 1
	MaxAge         = 120
)

var (
	strictPolicy  = bluemonday.StrictPolicy()
	angleBrackets = strings.NewReplacer("<", "", ">", "")
)

// SanitizeText turns user input into plain text: markup is stripped,
// entities decoded, angle brackets and control characters dropped,
// whitespace trimmed and the result capped at maxRunes runes.
func SanitizeText(s string, maxRunes int) string {
	s = strictPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = angleBrackets.Replace(s)
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)
	return Truncate(s, maxRunes)
}

// Truncate caps s at maxRunes runes without splitting a character.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxRunes]))
}

// ValidateAge checks a user-supplied age.
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return &ValidationError{Field: "age", Message: "Age must be between 1 and 120"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
