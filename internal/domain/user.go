package domain

import (
	"strings"
	"time"
)

// User represents a registered student.
type User struct {
	ID           string
	Email        string
	PasswordHash string // empty for legacy accounts created before passwords existed
	CreatedAt    time.Time
}

// HasPassword reports whether a password has been attached to the account.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != ""
}

// NormalizeEmail returns the canonical form used for uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail performs a light structural check.
func ValidateEmail(email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ValidationErrors{NewMissingFieldError("email")}
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 || !strings.Contains(email[at:], ".") {
		return ValidationErrors{NewInvalidFormatError("email", email)}
	}
	return nil
}
