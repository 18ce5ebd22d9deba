package user

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func PasswdCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passwd [username]",
		Short: "Change a user's password",
		Long: `Change a password. Without a username the logged-in operator's own
password is changed, which needs no extra permission.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			username := sess.Operator
			if len(args) == 1 {
				username = args[0]
			}
			if username == "" {
				return fmt.Errorf("not logged in: run \"flagadmin auth login\" first")
			}

			password, err := cmdutil.NewPassword(cmd)
			if err != nil {
				return err
			}
			if err := sess.Service.SetPassword(ctx, username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Password for %q changed.\n", username)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("password", "", "New password (prompted for when omitted)")
	return cmd
}
