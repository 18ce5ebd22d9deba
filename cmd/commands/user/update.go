package user

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"

	"github.com/spf13/cobra"
)

func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <username>",
		Short: "Update a user's profile or status",
		Long: `Update a user's email, display name or active status.

Deactivated users keep their history but can neither log in nor act.

Examples:
  flagadmin user update ada --email ada@example.org
  flagadmin user update bob --active=false`,
		Args:         cobra.ExactArgs(1),
		RunE:         runUpdate,
		SilenceUsage: true,
	}

	cmd.Flags().String("email", "", "New email address")
	cmd.Flags().String("display-name", "", "New display name")
	cmd.Flags().Bool("active", true, "Whether the user may log in")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var upd admin.UserUpdate
	if cmd.Flags().Changed("email") {
		v, _ := cmd.Flags().GetString("email")
		upd.Email = &v
	}
	if cmd.Flags().Changed("display-name") {
		v, _ := cmd.Flags().GetString("display-name")
		upd.DisplayName = &v
	}
	if cmd.Flags().Changed("active") {
		v, _ := cmd.Flags().GetBool("active")
		upd.Active = &v
	}
	if upd == (admin.UserUpdate{}) {
		return fmt.Errorf("nothing to update: pass --email, --display-name or --active")
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	u, err := sess.Service.UpdateUser(ctx, args[0], upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %q updated.\n", u.Username)
	return nil
}
