// Package cmdutil holds the plumbing shared by the flagadmin subcommands:
// opening the database, resolving the logged-in operator and printing
// results.
package cmdutil

import (
	"context"
	"errors"
	"fmt"
	"log"

	"nathanbeddoewebdev/flagadmin/internal/config"
	"nathanbeddoewebdev/flagadmin/internal/database"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"
	"nathanbeddoewebdev/flagadmin/internal/services/auth"
	"nathanbeddoewebdev/flagadmin/internal/tracking"

	"github.com/spf13/cobra"
)

// storeOverride, when non-nil, replaces the keyring-backed auth store.
// Use SetStore / ResetStore to manage.
var storeOverride auth.Store

// SetStore overrides the auth store. Intended for testing.
func SetStore(s auth.Store) { storeOverride = s }

// ResetStore reverts to the default keyring store. Intended for testing.
func ResetStore() { storeOverride = nil }

// Store returns the auth store holding the logged-in operator.
func Store() auth.Store {
	if storeOverride != nil {
		return storeOverride
	}
	return auth.DefaultStore()
}

// Session is an open database plus the operator acting on it.
type Session struct {
	Service  *admin.Service
	Operator string
}

// Close releases the database.
func (s *Session) Close() error {
	return s.Service.Close()
}

// DatabasePath resolves the database file: the --db flag wins, then the
// database-path config key, then the default location.
func DatabasePath(cmd *cobra.Command) (string, error) {
	if f := cmd.Flag("db"); f != nil && f.Value.String() != "" {
		return f.Value.String(), nil
	}

	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	if cfg.DatabasePath != "" {
		return cfg.DatabasePath, nil
	}
	return database.DefaultPath()
}

// Open opens the database and returns a context carrying the logged-in
// operator, if any. Commands that mutate data rely on the service to
// reject anonymous callers.
func Open(cmd *cobra.Command) (*Session, context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path, err := DatabasePath(cmd)
	if err != nil {
		return nil, nil, err
	}
	db, err := database.OpenAt(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(cmd.ErrOrStderr(), "flagadmin: ", 0)
	recorder := tracking.NewRecorder(domain.NewAuditRegistry(), tracking.WithLogger(logger))
	sess := &Session{Service: admin.NewService(db, recorder)}

	operator, err := Store().Operator()
	switch {
	case err == nil:
		sess.Operator = operator
		ctx = tracking.WithOperator(ctx, operator)
	case errors.Is(err, auth.ErrNotLoggedIn):
	default:
		sess.Close()
		return nil, nil, fmt.Errorf("failed to read logged-in operator: %w", err)
	}

	return sess, ctx, nil
}
