package flag

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List feature flags",
		Long: `List all feature flags ordered by key.

Examples:
  flagadmin flag list
  flagadmin flag list --enabled
  flagadmin flag list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("enabled", false, "Only list enabled flags")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.OutputFormat(cmd)
	if err != nil {
		return err
	}
	enabledOnly, _ := cmd.Flags().GetBool("enabled")

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	flags, err := sess.Service.ListFlags(ctx, enabledOnly)
	if err != nil {
		return err
	}

	if format == "json" {
		return cmdutil.PrintJSON(cmd, flags)
	}
	if len(flags) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No feature flags found.")
		return nil
	}
	printFlagTable(cmd.OutOrStdout(), flags)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", cmdutil.Count(len(flags), "flag"))
	return nil
}
