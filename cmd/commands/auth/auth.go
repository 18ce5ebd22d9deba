package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Log in as a flagadmin user",
		Long: `Log in as a flagadmin user.

The logged-in username is kept in the system keychain. Every change you make
is checked against that user's permissions and recorded under its name in
the audit log.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
