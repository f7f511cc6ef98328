package util

import (
	"regexp"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether the address looks like a deliverable email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPassword enforces the signup password policy: 6-16 characters with at
// least one digit and at least one symbol.
func ValidPassword(password string) bool {
	length := len([]rune(password))
	if length < 6 || length > 16 {
		return false
	}
	hasDigit := false
	hasSymbol := false
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasDigit && hasSymbol
}
