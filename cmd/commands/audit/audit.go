package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Browse and prune the change history",
		Long: "Every change to users, roles, permissions and feature flags writes an\n" +
			"audit entry holding the entity's audited fields before and after the change.\n\n" +
			"Reading the history requires the audit.read permission; pruning requires audit.prune.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(ShowCommand())
	cmd.AddCommand(StatsCommand())
	cmd.AddCommand(BrowseCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
