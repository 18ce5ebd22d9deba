package auth

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/tui"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and remember the user in the keychain",
		Long: `Verify a username and password and store the username in the local
keychain. In a terminal without a username an interactive form is shown.

Examples:
  flagadmin auth login
  flagadmin auth login alice
  echo "$PASSWORD" | flagadmin auth login alice`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("password", "", "Password (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	verify := func(username, password string) error {
		u, err := sess.Service.Authenticate(ctx, username, password)
		if err != nil {
			return err
		}
		return cmdutil.Store().SetOperator(u.Username)
	}

	var username string
	if len(args) == 1 {
		username = strings.TrimSpace(args[0])
	}
	password, _ := cmd.Flags().GetString("password")

	if password == "" && cmdutil.IsInteractive() {
		result, err := tui.RunAuthLogin(username, verify)
		if err != nil {
			return err
		}
		if result == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Login cancelled.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", result.Username)
		return nil
	}

	if username == "" {
		return fmt.Errorf("a username is required when not running in a terminal")
	}
	if password == "" {
		password, err = cmdutil.ReadPassword(cmd, "Password: ")
		if err != nil {
			return err
		}
	}
	if err := verify(username, password); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", strings.ToLower(username))
	return nil
}
