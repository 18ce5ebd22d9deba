// Package auth remembers which operator is logged in and verifies
// operator passwords.
package auth

import (
	"errors"
)

const (
	ServiceName = "flagadmin"

	// operatorAccount is the keyring account holding the operator name.
	operatorAccount = "operator"
)

var ErrNotLoggedIn = errors.New("not logged in")

// Store persists the logged-in operator between invocations.
type Store interface {
	SetOperator(username string) error
	Operator() (string, error)
	Clear() error
}

// DefaultStore returns the standard store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}
