package flag

import (
	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <key>",
		Short: "Show a feature flag",
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

			f, err := sess.Service.GetFlag(ctx, args[0])
			if err != nil {
				return err
			}
			if format == "json" {
				return cmdutil.PrintJSON(cmd, f)
			}
			printFlagDetail(cmd.OutOrStdout(), f)
			return nil
		},
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)
	return cmd
}
