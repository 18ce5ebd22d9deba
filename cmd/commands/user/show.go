package user

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user and its roles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmdutil.OutputFormat(cmd)
			if err != nil {
				return err
			}

			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			u, err := sess.Service.GetUser(ctx, args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return cmdutil.PrintJSON(cmd, u)
			}

			w := cmdutil.NewTable(cmd.OutOrStdout())
			fmt.Fprintf(w, "  Username:\t%s\n", u.Username)
			fmt.Fprintf(w, "  Name:\t%s\n", cmdutil.Dash(u.DisplayName))
			fmt.Fprintf(w, "  Email:\t%s\n", cmdutil.Dash(u.Email))
			fmt.Fprintf(w, "  Active:\t%t\n", u.Active)
			fmt.Fprintf(w, "  Roles:\t%s\n", cmdutil.Dash(strings.Join(u.Roles, ", ")))
			fmt.Fprintf(w, "  Created:\t%s\n", cmdutil.FormatTime(u.CreatedAt))
			fmt.Fprintf(w, "  Updated:\t%s\n", cmdutil.FormatTime(u.UpdatedAt))
			return w.Flush()
		},
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)
	return cmd
}
