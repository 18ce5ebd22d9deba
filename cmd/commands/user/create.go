package user

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create a user",
		Long: `Create a user. The password is prompted for unless --password is given.

Examples:
  flagadmin user create ada --email ada@example.com --role release
  echo "s3cret-pass" | flagadmin user create ci-bot`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("display-name", "", "Display name")
	cmd.Flags().String("password", "", "Password (prompted for when omitted)")
	cmd.Flags().StringSlice("role", nil, "Role to assign (repeatable)")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	password, err := cmdutil.NewPassword(cmd)
	if err != nil {
		return err
	}
	email, _ := cmd.Flags().GetString("email")
	displayName, _ := cmd.Flags().GetString("display-name")
	roles, _ := cmd.Flags().GetStringSlice("role")

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	u, err := sess.Service.CreateUser(ctx, admin.NewUser{
		Username:    args[0],
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "User %q created.\n", u.Username)

	for _, role := range roles {
		if err := sess.Service.AssignRole(ctx, u.Username, role); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Role %q assigned.\n", role)
	}

	if sess.Operator == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s is the first user and has been made an administrator.\n", u.Username)
		fmt.Fprintf(cmd.OutOrStdout(), "Run \"flagadmin auth login %s\" to start managing flags.\n", u.Username)
	}
	return nil
}
