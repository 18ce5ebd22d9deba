package user

import (
	"github.com/spf13/cobra"
)

// NewCommand returns the "user" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
		Long: `Manage the operators allowed to administer feature flags.

The first user created in an empty database needs no login; it is made an
administrator and recorded as its own creator. Afterwards, managing users
requires the users.manage permission.`,
	}

	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(UpdateCommand())
	cmd.AddCommand(PasswdCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(AssignCommand())
	cmd.AddCommand(UnassignCommand())

	return cmd
}
