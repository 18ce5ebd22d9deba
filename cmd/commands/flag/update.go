package flag

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"

	"github.com/spf13/cobra"
)

func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <key>",
		Short: "Update a feature flag",
		Long: `Update the name, description or rollout percentage of a flag.

Only the flags passed on the command line are changed. An update that
changes nothing writes no audit entry.

Examples:
  flagadmin flag update new-checkout --rollout 50
  flagadmin flag update new-checkout --description "Rewritten checkout flow"`,
		Args:         cobra.ExactArgs(1),
		RunE:         runUpdate,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().Int("rollout", 0, "New rollout percentage (0-100)")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var upd admin.FlagUpdate
	if cmd.Flags().Changed("name") {
		v, _ := cmd.Flags().GetString("name")
		upd.Name = &v
	}
	if cmd.Flags().Changed("description") {
		v, _ := cmd.Flags().GetString("description")
		upd.Description = &v
	}
	if cmd.Flags().Changed("rollout") {
		v, _ := cmd.Flags().GetInt("rollout")
		upd.RolloutPercent = &v
	}
	if upd == (admin.FlagUpdate{}) {
		return fmt.Errorf("nothing to update: pass --name, --description or --rollout")
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	f, err := sess.Service.UpdateFlag(ctx, args[0], upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Flag %q updated.\n\n", f.Key)
	printFlagDetail(cmd.OutOrStdout(), f)
	return nil
}

// setEnabled is shared by toggle, enable and disable.
func setEnabled(cmd *cobra.Command, key string, enabled *bool) (*domain.FeatureFlag, error) {
	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if enabled == nil {
		return sess.Service.ToggleFlag(ctx, key)
	}
	return sess.Service.UpdateFlag(ctx, key, admin.FlagUpdate{Enabled: enabled})
}
