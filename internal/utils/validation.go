package contextutils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// IsValidEmail checks if an email address is valid using go-playground/validator
func IsValidEmail(email string) bool {
	return validate.Var(email, "email") == nil
}

// NormalizeEmail lowercases and trims an email address for storage and comparison.
// The tracking lookup and master-admin check both compare normalized forms.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
