package role

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// NewCommand returns the "role" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "role",
		Short: "Manage roles and their permissions",
		Long: `Manage roles and the permissions they grant.

The built-in admin role holds every permission and can be neither deleted
nor trimmed. Mutating commands require the roles.manage permission.`,
	}

	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(ListCommand())
	cmd.AddCommand(DeleteCommand())
	cmd.AddCommand(GrantCommand())
	cmd.AddCommand(RevokeCommand())
	cmd.AddCommand(PermissionsCommand())

	return cmd
}

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a role",
		Long: `Create a role with no permissions. Grant permissions with "role grant".

Examples:
  flagadmin role create release --description "Release managers"
  flagadmin role create release --grant flags.manage --grant audit.read`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			description, _ := cmd.Flags().GetString("description")
			grants, _ := cmd.Flags().GetStringSlice("grant")

			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			r, err := sess.Service.CreateRole(ctx, args[0], description)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Role %q created.\n", r.Name)

			for _, p := range grants {
				if err := sess.Service.GrantPermission(ctx, r.Name, p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Granted %s.\n", p)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("description", "", "What the role is for")
	cmd.Flags().StringSlice("grant", nil, "Permission to grant (repeatable)")
	return cmd
}

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List roles with their permissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmdutil.OutputFormat(cmd)
			if err != nil {
				return err
			}

			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			roles, err := sess.Service.ListRoles(ctx)
			if err != nil {
				return err
			}
			if format == "json" {
				return cmdutil.PrintJSON(cmd, roles)
			}

			w := cmdutil.NewTable(cmd.OutOrStdout())
			cmdutil.Header(w, "ROLE", "DESCRIPTION", "PERMISSIONS")
			for _, r := range roles {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					r.Name, cmdutil.Dash(r.Description), cmdutil.Dash(strings.Join(r.Permissions, ", ")))
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a role",
		Long: `Delete a role. Its permission grants and user assignments are removed
too, each one recorded in the audit log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				return fmt.Errorf("refusing to delete role %q without --yes", args[0])
			}

			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Service.DeleteRole(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Role %q deleted.\n", args[0])
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().BoolP("yes", "y", false, "Confirm the deletion")
	return cmd
}

func GrantCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "grant <role> <permission>...",
		Short: "Grant permissions to a role",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			for _, p := range args[1:] {
				if err := sess.Service.GrantPermission(ctx, args[0], p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Granted %s to %q.\n", p, args[0])
			}
			return nil
		},
		SilenceUsage: true,
	}
}

func RevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <role> <permission>...",
		Short: "Revoke permissions from a role",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			for _, p := range args[1:] {
				if err := sess.Service.RevokePermission(ctx, args[0], p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s from %q.\n", p, args[0])
			}
			return nil
		},
		SilenceUsage: true,
	}
}

func PermissionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "List the permissions that can be granted",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmdutil.OutputFormat(cmd)
			if err != nil {
				return err
			}

			sess, ctx, err := cmdutil.Open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			perms, err := sess.Service.ListPermissions(ctx)
			if err != nil {
				return err
			}
			if format == "json" {
				return cmdutil.PrintJSON(cmd, perms)
			}

			w := cmdutil.NewTable(cmd.OutOrStdout())
			cmdutil.Header(w, "PERMISSION", "DESCRIPTION")
			for _, p := range perms {
				fmt.Fprintf(w, "%s\t%s\n", p.Name, cmdutil.Dash(p.Description))
			}
			return w.Flush()
		},
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)
	return cmd
}
