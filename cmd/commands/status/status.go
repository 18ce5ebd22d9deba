// Package status implements the "status" dashboard command.
package status

import (
	"errors"
	"fmt"
	"time"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/services/admin"
	"nathanbeddoewebdev/flagadmin/internal/tui"

	"github.com/spf13/cobra"
)

// activityDays is the length of the activity chart on the dashboard.
const activityDays = 14

// NewCommand returns the "status" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show an overview of users, roles, flags and recent changes",
		Long: `Show counts of users, roles and feature flags plus the number of
changes recorded in the last 24 hours. In a terminal a dashboard with an
activity chart is shown when the logged-in user may read the audit log.

Examples:
  flagadmin status
  flagadmin status -o json`,
		Args:         cobra.NoArgs,
		RunE:         runStatus,
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)

	return cmd
}

// statusResult is the JSON form of "status".
type statusResult struct {
	Operator string `json:"operator,omitempty"`
	*admin.Overview
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.OutputFormat(cmd)
	if err != nil {
		return err
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	overview, err := sess.Service.Overview(ctx)
	if err != nil {
		return err
	}

	if format == "json" {
		return cmdutil.PrintJSON(cmd, statusResult{Operator: sess.Operator, Overview: overview})
	}

	if cmdutil.IsInteractive() && !cmd.Flags().Changed("output") {
		data := tui.StatusData{Operator: sess.Operator, Overview: *overview}
		since := time.Now().UTC().Truncate(24*time.Hour).AddDate(0, 0, -(activityDays - 1))
		activity, err := sess.Service.AuditActivity(ctx, since)
		switch {
		case err == nil:
			data.Daily = auditlog.DailySeries(activity.ByDay, since, time.Now())
			data.ByType = activity.ByType
		case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		default:
			return err
		}
		return tui.RunStatus(data)
	}

	out := cmd.OutOrStdout()
	w := cmdutil.NewTable(out)
	operator := sess.Operator
	if operator == "" {
		operator = "(not logged in)"
	}
	fmt.Fprintf(w, "Operator:\t%s\n", operator)
	fmt.Fprintf(w, "Users:\t%d\n", overview.Users)
	fmt.Fprintf(w, "Roles:\t%d\n", overview.Roles)
	fmt.Fprintf(w, "Flags:\t%d (%d enabled)\n", overview.Flags, overview.EnabledFlags)
	fmt.Fprintf(w, "Changes (24h):\t%d\n", overview.Changes24h)
	return w.Flush()
}
