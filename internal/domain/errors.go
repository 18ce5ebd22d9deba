package domain

import "errors"

// Sentinel errors shared by the store and service layers. Wrap them so the
// CLI can classify failures with errors.Is:
//
//	return fmt.Errorf("failed to delete flag: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates no operator is logged in, or the supplied
	// credentials were rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates the operator lacks the required permission.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict indicates a uniqueness conflict, such as a duplicate
	// username or flag key.
	ErrConflict = errors.New("conflict")

	// ErrInvalid indicates input that failed validation.
	ErrInvalid = errors.New("invalid input")
)
