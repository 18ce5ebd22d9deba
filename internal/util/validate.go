package util

import (
	"fmt"
	"net/mail"
	"regexp"

	"nathanbeddoewebdev/flagadmin/internal/domain"
)

// identChars matches lowercase identifiers used for flag keys, role names
// and usernames.
var identChars = regexp.MustCompile(`^[a-z0-9][a-z0-9._\-]*$`)

// ValidateFlagKey checks that a flag key is 2-64 characters of lowercase
// letters, digits, dots, hyphens and underscores, starting with a letter
// or digit.
func ValidateFlagKey(key string) error {
	return validateIdent("flag key", key, 2, 64)
}

// ValidateRoleName applies the flag key rules to role names.
func ValidateRoleName(name string) error {
	return validateIdent("role name", name, 2, 64)
}

// ValidateUsername checks that a username is 3-32 identifier characters.
func ValidateUsername(name string) error {
	return validateIdent("username", name, 3, 32)
}

func validateIdent(what, s string, minLen, maxLen int) error {
	if len(s) < minLen {
		return fmt.Errorf("%w: %s must be at least %d characters, got %d", domain.ErrInvalid, what, minLen, len(s))
	}
	if len(s) > maxLen {
		return fmt.Errorf("%w: %s must be at most %d characters, got %d", domain.ErrInvalid, what, maxLen, len(s))
	}
	if !identChars.MatchString(s) {
		return fmt.Errorf("%w: %s %q contains invalid characters (only a-z, 0-9, '.', '-', '_' are allowed, starting with a-z or 0-9)", domain.ErrInvalid, what, s)
	}
	return nil
}

// ValidateRollout checks that a rollout percentage lies in [0, 100].
func ValidateRollout(percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: rollout percent must be between 0 and 100, got %d", domain.ErrInvalid, percent)
	}
	return nil
}

// ValidateEmail accepts an empty string or a bare address.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: invalid email address %q", domain.ErrInvalid, email)
	}
	return nil
}
