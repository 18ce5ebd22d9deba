package audit

import (
	"fmt"
	"strconv"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/auditlog"

	"github.com/spf13/cobra"
)

func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one audit entry and its field changes",
		Long: `Show one audit entry with a field-by-field comparison of the old and
new values.

Examples:
  flagadmin audit show 42
  flagadmin audit show 42 -o json`,
		Args:         cobra.ExactArgs(1),
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

// entryDetail is the JSON form of "audit show".
type entryDetail struct {
	auditlog.AuditEntry
	Changes []auditlog.FieldDiff `json:"changes"`
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid audit entry id %q", args[0])
	}
	format, err := cmdutil.OutputFormat(cmd)
	if err != nil {
		return err
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	entry, err := sess.Service.GetAudit(ctx, id)
	if err != nil {
		return err
	}
	diffs, err := auditlog.Diff(*entry)
	if err != nil {
		return err
	}

	if format == "json" {
		if diffs == nil {
			diffs = []auditlog.FieldDiff{}
		}
		return cmdutil.PrintJSON(cmd, entryDetail{AuditEntry: *entry, Changes: diffs})
	}

	out := cmd.OutOrStdout()
	w := cmdutil.NewTable(out)
	fmt.Fprintf(w, "ID:\t%d\n", entry.ID)
	fmt.Fprintf(w, "Time:\t%s\n", cmdutil.FormatTime(entry.Timestamp))
	fmt.Fprintf(w, "User:\t%s\n", cmdutil.Dash(entry.UserName))
	fmt.Fprintf(w, "Trace:\t%s\n", cmdutil.Dash(entry.TraceID))
	fmt.Fprintf(w, "Entity:\t%s %s\n", entry.EntityType, entry.EntityID)
	fmt.Fprintf(w, "Action:\t%s\n", entry.Action)
	w.Flush()

	fmt.Fprintln(out)
	if len(diffs) == 0 {
		fmt.Fprintln(out, "No audited fields changed.")
		return nil
	}

	w = cmdutil.NewTable(out)
	cmdutil.Header(w, "FIELD", "OLD", "NEW")
	for _, d := range diffs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Field, cmdutil.Dash(d.Old), cmdutil.Dash(d.New))
	}
	w.Flush()
	return nil
}
