package user

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/tui"

	"github.com/spf13/cobra"
)

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user and its role assignments",
		Long: `Delete a user. Its role assignments are removed too, each one
recorded in the audit log. Consider "user update --active=false" to keep
the account around.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				if !cmdutil.IsInteractive() {
					return fmt.Errorf("refusing to delete %q without confirmation: pass --yes", args[0])
				}
				ok, err := tui.Confirm("Delete this user?", args[0])
				if err != nil || !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "User deletion cancelled.")
					return nil
				}
			}

			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Service.DeleteUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %q deleted.\n", args[0])
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
