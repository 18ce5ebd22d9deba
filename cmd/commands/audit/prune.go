package audit

import (
	"fmt"
	"strings"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/config"

	"github.com/spf13/cobra"
)

func PruneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit entries older than a duration",
		Long: `Delete audit entries older than a duration. Without --older-than the
audit-retention config key is used (default 90d).

Examples:
  flagadmin audit prune
  flagadmin audit prune --older-than 30d
  flagadmin audit prune --older-than 72h`,
		RunE:         runPrune,
		SilenceUsage: true,
	}

	cmd.Flags().String("older-than", "", "Remove entries older than this duration (e.g. 30d, 2w, 72h)")

	return cmd
}

func runPrune(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("older-than")
	raw = strings.TrimSpace(raw)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if raw != "" {
		cfg.AuditRetention = raw
	}
	olderThan, err := cfg.Retention()
	if err != nil {
		return err
	}
	label := cfg.AuditRetention
	if label == "" {
		label = "90d"
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	removed, err := sess.Service.PruneAudit(ctx, olderThan)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s older than %s.\n", cmdutil.Count(int(removed), "audit entry"), label)
	return nil
}
