package user

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func AssignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assign <username> <role>",
		Short: "Assign a role to a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Service.AssignRole(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Role %q assigned to %q.\n", args[1], args[0])
			return nil
		},
		SilenceUsage: true,
	}
}

func UnassignCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <username> <role>",
		Short: "Remove a role from a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Service.UnassignRole(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Role %q removed from %q.\n", args[1], args[0])
			return nil
		},
		SilenceUsage: true,
	}
}
