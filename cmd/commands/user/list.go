package user

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List users",
		RunE:         runList,
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.OutputFormat(cmd)
	if err != nil {
		return err
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	users, err := sess.Service.ListUsers(ctx)
	if err != nil {
		return err
	}

	if format == "json" {
		return cmdutil.PrintJSON(cmd, users)
	}
	if len(users) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No users found. Create one with \"flagadmin user create\".")
		return nil
	}

	w := cmdutil.NewTable(cmd.OutOrStdout())
	cmdutil.Header(w, "USERNAME", "NAME", "EMAIL", "ACTIVE", "CREATED")
	for _, u := range users {
		active := "yes"
		if !u.Active {
			active = "no"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.Username, cmdutil.Dash(u.DisplayName), cmdutil.Dash(u.Email), active, cmdutil.FormatTime(u.CreatedAt))
	}
	w.Flush()
	return nil
}
