package utils

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Hello there", "Hello there"},
		{"strips tags", "<b>Hi</b> there", "Hi there"},
		{"drops script content", "<script>alert(1)</script>ok", "ok"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"escaped markup stays inert", "&lt;script&gt;", "script"},
		{"trims", "   spaced   ", "spaced"},
		{"drops control chars", "a\x07b\x1bc", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.in, MaxAboutLength); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeText_Caps(t *testing.T) {
	long := strings.Repeat("я", MaxAboutLength+50)
	got := SanitizeText(long, MaxAboutLength)
	if n := utf8.RuneCountInString(got); n != MaxAboutLength {
		t.Errorf("rune count: got %d, want %d", n, MaxAboutLength)
	}

	name := SanitizeText("Alexandria-Catherine the Great", MaxNameLength)
	if n := utf8.RuneCountInString(name); n > MaxNameLength {
		t.Errorf("name rune count: got %d, want <= %d", n, MaxNameLength)
	}
}

func TestValidateAge(t *testing.T) {
	for _, age := range []int{1, 18, 120} {
		if err := ValidateAge(age); err != nil {
			t.Errorf("ValidateAge(%d) unexpected error: %v", age, err)
		}
	}
	for _, age := range []int{-1, 0, 121} {
		err := ValidateAge(age)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("ValidateAge(%d): expected ValidationError, got %v", age, err)
			continue
		}
		if ve.Field != "age" {
			t.Errorf("Field: got %q, want age", ve.Field)
		}
	}
}
