package folio

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrValidation wraps every form validation failure.
var ErrValidation = errors.New("invalid input")

const (
	// MinPasswordLength is the shortest password accepted at signup.
	MinPasswordLength = 6
	// MaxPasswordLength is the longest password bcrypt can hash.
	MaxPasswordLength = 72
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace. Case is preserved.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// ValidateLogin checks that both login fields are filled in.
func ValidateLogin(email, password string) error {
	if NormalizeEmail(email) == "" || password == "" {
		return fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	return nil
}

// ValidateSignup checks the signup form: required fields, email shape,
// password length and confirmation match.
func ValidateSignup(email, password, confirm string) error {
	email = NormalizeEmail(email)
	if email == "" || password == "" || confirm == "" {
		return fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: please enter a valid email address", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, MaxPasswordLength)
	}
	if password != confirm {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}
