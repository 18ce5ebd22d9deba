package auth

import (
	"errors"
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/domain"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the logged-in user and its roles",
		Long: `Show which user is logged in and the roles it holds.

Example:
  flagadmin auth status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			if sess.Operator == "" {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}

			u, err := sess.Service.GetUser(ctx, sess.Operator)
			if errors.Is(err, domain.ErrNotFound) {
				fmt.Fprintf(out, "Logged in as %s, but that user no longer exists.\n", sess.Operator)
				return nil
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Logged in as %s\n", u.Username)
			if !u.Active {
				fmt.Fprintln(out, "Account: deactivated")
			}
			fmt.Fprintf(out, "Roles: %s\n", cmdutil.Dash(strings.Join(u.Roles, ", ")))
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
