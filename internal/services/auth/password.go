package auth

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/flagadmin/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password HashPassword accepts.
const MinPasswordLength = 8

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalid, MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password against a bcrypt hash. A mismatch, or a
// user without a password, returns domain.ErrUnauthorized.
func CheckPassword(hash, password string) error {
	if hash == "" {
		return fmt.Errorf("auth: no password set: %w", domain.ErrUnauthorized)
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return fmt.Errorf("auth: invalid username or password: %w", domain.ErrUnauthorized)
	}
	if err != nil {
		return fmt.Errorf("auth: check password: %w", err)
	}
	return nil
}
