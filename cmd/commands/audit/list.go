package audit

import (
	"fmt"
	"io"
	"strings"
	"time"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/config"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List audit entries, newest first.

Examples:
  flagadmin audit list
  flagadmin audit list --type FeatureFlag --id 3
  flagadmin audit list --user alice --since 7d
  flagadmin audit list --trace 5f0c... -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	addFilterFlags(cmd, 25)
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

// addFilterFlags registers the flags shared by list and browse.
func addFilterFlags(cmd *cobra.Command, limit int) {
	cmd.Flags().String("type", "", "Only entries for this entity type (e.g. FeatureFlag)")
	cmd.Flags().String("id", "", "Only entries for this entity id")
	cmd.Flags().String("user", "", "Only changes made by this user")
	cmd.Flags().String("action", "", "Only this action: insert, update or delete")
	cmd.Flags().String("trace", "", "Only entries written by one command invocation")
	cmd.Flags().String("since", "", "Only entries newer than this age (e.g. 24h, 7d)")
	cmd.Flags().Int("limit", limit, "Maximum number of entries")
}

func filterFromFlags(cmd *cobra.Command) (auditlog.Filter, error) {
	var f auditlog.Filter

	f.Limit, _ = cmd.Flags().GetInt("limit")
	if f.Limit <= 0 {
		return f, fmt.Errorf("limit must be greater than 0")
	}

	f.EntityType, _ = cmd.Flags().GetString("type")
	f.EntityID, _ = cmd.Flags().GetString("id")
	f.UserName, _ = cmd.Flags().GetString("user")
	f.TraceID, _ = cmd.Flags().GetString("trace")

	action, _ := cmd.Flags().GetString("action")
	f.Action = strings.ToLower(strings.TrimSpace(action))
	switch f.Action {
	case "", "insert", "update", "delete":
	default:
		return f, fmt.Errorf("invalid action %q: must be insert, update or delete", action)
	}

	since, _ := cmd.Flags().GetString("since")
	if since = strings.TrimSpace(since); since != "" {
		age, err := config.ParseRetention(since)
		if err != nil {
			return f, fmt.Errorf("invalid --since: %w", err)
		}
		f.Since = time.Now().Add(-age)
	}
	return f, nil
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.OutputFormat(cmd)
	if err != nil {
		return err
	}
	filter, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	entries, err := sess.Service.ListAudit(ctx, filter)
	if err != nil {
		return err
	}

	if format == "json" {
		if entries == nil {
			entries = []auditlog.AuditEntry{}
		}
		return cmdutil.PrintJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}
	printEntryTable(cmd.OutOrStdout(), entries)
	return nil
}

func printEntryTable(out io.Writer, entries []auditlog.AuditEntry) {
	w := cmdutil.NewTable(out)
	cmdutil.Header(w, "ID", "TIME", "USER", "ACTION", "ENTITY", "CHANGED")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s:%s\t%s\n",
			e.ID,
			cmdutil.FormatTime(e.Timestamp),
			cmdutil.Dash(e.UserName),
			e.Action,
			e.EntityType, e.EntityID,
			changedFields(e),
		)
	}
	w.Flush()
}

// changedFields summarizes the fields an entry touched.
func changedFields(e auditlog.AuditEntry) string {
	if e.Action != "update" {
		return "-"
	}
	diffs, err := auditlog.Diff(e)
	if err != nil {
		return "?"
	}
	names := make([]string, len(diffs))
	for i, d := range diffs {
		names[i] = d.Field
	}
	return cmdutil.Dash(strings.Join(names, ","))
}
