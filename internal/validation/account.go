// Package validation holds input validation rules shared by the service
// and handler layers.
package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"
)

const (
	minPasswordLen = 12
	maxPasswordLen = 128
	maxEmailLen    = 254

	// MinimumAge is the youngest allowed account holder, checked against
	// the supplied date of birth at sign-up.
	MinimumAge = 13
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)

// ValidatePassword enforces the password policy: 12-128 characters with
// at least one upper, one lower, one digit and one special character.
func ValidatePassword(password string) error {
	n := len([]rune(password))
	if n < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	if n > maxPasswordLen {
		return fmt.Errorf("password must be at most %d characters", maxPasswordLen)
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain an uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain a lowercase letter")
	}
	if !hasDigit {
		return fmt.Errorf("password must contain a digit")
	}
	if !hasSpecial {
		return fmt.Errorf("password must contain a special character")
	}
	return nil
}

// ValidateUsername validates username format.
func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("username must be 3-30 characters and contain only letters, numbers, underscores, and hyphens")
	}
	if strings.HasPrefix(username, "-") || strings.HasPrefix(username, "_") ||
		strings.HasSuffix(username, "-") || strings.HasSuffix(username, "_") {
		return fmt.Errorf("username cannot start or end with a hyphen or underscore")
	}
	return nil
}

// ValidateEmail validates email format and length.
func ValidateEmail(email string) error {
	if len(email) > maxEmailLen {
		return fmt.Errorf("email must be at most %d characters", maxEmailLen)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("invalid email address")
	}
	if strings.HasSuffix(email, ".") || !strings.Contains(strings.SplitN(email, "@", 2)[1], ".") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// ValidateDateOfBirth rejects future dates and accounts younger than
// MinimumAge.
func ValidateDateOfBirth(dob time.Time, now time.Time) error {
	if dob.IsZero() {
		return fmt.Errorf("date of birth is required")
	}
	if dob.After(now) {
		return fmt.Errorf("date of birth cannot be in the future")
	}
	if dob.AddDate(MinimumAge, 0, 0).After(now) {
		return fmt.Errorf("you must be at least %d years old", MinimumAge)
	}
	return nil
}
