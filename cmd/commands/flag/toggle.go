package flag

import (
	"fmt"

	"github.com/spf13/cobra"
)

func ToggleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <key>",
		Short: "Flip a feature flag on or off",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := setEnabled(cmd, args[0], nil)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Flag %q is now %s.\n", f.Key, onOff(f.Enabled))
			return nil
		},
		SilenceUsage: true,
	}
	return cmd
}

// SwitchCommand returns the "enable" or "disable" command.
func SwitchCommand(use string, enabled bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <key>",
		Short: fmt.Sprintf("Turn a feature flag %s", onOff(enabled)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := setEnabled(cmd, args[0], &enabled)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Flag %q is now %s.\n", f.Key, onOff(f.Enabled))
			return nil
		},
		SilenceUsage: true,
	}
	return cmd
}
