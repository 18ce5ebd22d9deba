package flag

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"
	"nathanbeddoewebdev/flagadmin/internal/tui"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [key]",
		Short: "Create a feature flag",
		Long: `Create a feature flag.

Without a key and in a terminal, an interactive form asks for the flag
details. Flags are created disabled unless --enabled is given.

Examples:
  flagadmin flag create                                # interactive
  flagadmin flag create new-checkout --name "New checkout" --rollout 25`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Display name (defaults to the key)")
	cmd.Flags().String("description", "", "Free-form description")
	cmd.Flags().Bool("enabled", false, "Enable the flag immediately")
	cmd.Flags().Int("rollout", 100, "Percentage of subjects the flag is on for (0-100)")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.OutputFormat(cmd)
	if err != nil {
		return err
	}

	var in admin.NewFlag
	if len(args) == 0 {
		if !cmdutil.IsInteractive() {
			return fmt.Errorf("a flag key is required when not running in a terminal")
		}
		form, err := tui.CreateFlagForm()
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Flag creation cancelled.")
				return nil
			}
			return err
		}
		in = *form
	} else {
		in.Key = args[0]
		in.Name, _ = cmd.Flags().GetString("name")
		in.Description, _ = cmd.Flags().GetString("description")
		in.Enabled, _ = cmd.Flags().GetBool("enabled")
		in.RolloutPercent, _ = cmd.Flags().GetInt("rollout")
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	f, err := sess.Service.CreateFlag(ctx, in)
	if err != nil {
		return err
	}

	if format == "json" {
		return cmdutil.PrintJSON(cmd, f)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Flag %q created.\n\n", f.Key)
	printFlagDetail(cmd.OutOrStdout(), f)
	return nil
}
