// Package validation holds input validation shared by the account operations.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks the minimal shape the account store accepts: the
// address must contain an "@" and a dot. Anything stricter turns away
// addresses the rest of the system happily stores.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return ValidationError{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

// ValidatePassword checks the account password policy: at least 7 characters
// with one uppercase letter, one digit and one special character.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 7 {
		return ValidationError{Field: "password", Message: "Password must be at least 7 characters"}
	}

	var hasUpper, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case r < 'a' || r > 'z':
			hasSpecial = true
		}
	}

	if !hasUpper {
		return ValidationError{Field: "password", Message: "Password must include at least one uppercase letter"}
	}
	if !hasDigit {
		return ValidationError{Field: "password", Message: "Password must include at least one digit"}
	}
	if !hasSpecial {
		return ValidationError{Field: "password", Message: "Password must include at least one special character"}
	}

	return nil
}

// ValidateTheme normalizes a theme preference, falling back to light for
// anything unrecognized.
func ValidateTheme(theme string) string {
	if theme == "dark" {
		return "dark"
	}
	return "light"
}
