package flag

import (
	"errors"
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/tui"
	"nathanbeddoewebdev/flagadmin/internal/tui/styles"

	"github.com/spf13/cobra"
)

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a feature flag",
		Long: `Delete a feature flag.

In a terminal you are asked to confirm first. Scripts must pass --yes.

Examples:
  flagadmin flag delete old-banner
  flagadmin flag delete old-banner --yes`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDelete,
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	interactive := cmdutil.IsInteractive()
	if !yes && !interactive {
		return fmt.Errorf("refusing to delete %q without confirmation: pass --yes", args[0])
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

	if !yes {
		summary := fmt.Sprintf("%s (%s), %s at %d%%", f.Key, f.Name, styles.FlagIndicator(f.Enabled), f.RolloutPercent)
		ok, err := tui.Confirm("Delete this flag? This action cannot be undone.", summary)
		if err != nil && !errors.Is(err, tui.ErrAborted) {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.ErrOrStderr(), "Flag deletion cancelled.")
			return nil
		}
	}

	if interactive {
		err = tui.RunWithSpinner(ctx, "Deleting flag...", cmd.ErrOrStderr(), func() error {
			return sess.Service.DeleteFlag(ctx, f.Key)
		})
	} else {
		err = sess.Service.DeleteFlag(ctx, f.Key)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Flag %q deleted.\n", f.Key)
	return nil
}
