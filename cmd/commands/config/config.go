package config

import (
	"nathanbeddoewebdev/flagadmin/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage flagadmin configuration",
		Long: "View and modify persistent flagadmin settings.\n\n" +
			"Configuration is stored at ~/.config/flagadmin/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
