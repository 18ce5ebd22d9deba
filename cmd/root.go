package cmd

import (
	"os"

	"nathanbeddoewebdev/flagadmin/cmd/commands/audit"
	"nathanbeddoewebdev/flagadmin/cmd/commands/auth"
	cfgcmd "nathanbeddoewebdev/flagadmin/cmd/commands/config"
	flagcmd "nathanbeddoewebdev/flagadmin/cmd/commands/flag"
	"nathanbeddoewebdev/flagadmin/cmd/commands/role"
	"nathanbeddoewebdev/flagadmin/cmd/commands/status"
	"nathanbeddoewebdev/flagadmin/cmd/commands/user"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "flagadmin",
		Short: "Administer feature flags, users and roles with a full audit trail",
		Long: `flagadmin manages feature flags and the users and roles allowed to change
them. Every change is checked against the logged-in user's permissions and
recorded in an audit log with a snapshot of the entity before and after.

Quick start:
  flagadmin user create root --email root@example.com   # first user becomes admin
  flagadmin auth login root                             # remember who you are
  flagadmin flag create new-checkout --rollout 10       # create a flag
  flagadmin flag enable new-checkout                    # turn it on
  flagadmin audit list                                  # see what changed`,
	}

	cmd.PersistentFlags().String("db", "", "SQLite database file (default from config, else ~/.config/flagadmin/flagadmin.db)")

	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(user.NewCommand())
	cmd.AddCommand(role.NewCommand())
	cmd.AddCommand(flagcmd.NewCommand())
	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(status.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
