package flag

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "flag" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag",
		Short: "Manage feature flags",
		Long: `Create, inspect, toggle and delete feature flags.

Every change is recorded in the audit log together with the operator
who made it. Mutating commands require the flags.manage permission.`,
	}

	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(ToggleCommand())
	cmd.AddCommand(SwitchCommand("enable", true))
	cmd.AddCommand(SwitchCommand("disable", false))
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(CheckCommand())

	return cmd
}
