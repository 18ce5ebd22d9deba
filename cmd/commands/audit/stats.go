package audit

import (
	"fmt"
	"time"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/tui/components"

	"github.com/spf13/cobra"
)

const chartWidth = 60

func StatsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Chart audit activity per day and per entity type",
		Long: `Show how many changes were recorded per day and per entity type.

Examples:
  flagadmin audit stats
  flagadmin audit stats --days 30
  flagadmin audit stats -o json`,
		RunE:         runStats,
		SilenceUsage: true,
	}

	cmd.Flags().Int("days", 14, "Number of days to include, counting today")
	cmdutil.AddOutputFlag(cmd)

	return cmd
}

// statsResult is the JSON form of "audit stats".
type statsResult struct {
	Since  time.Time            `json:"since"`
	Total  int                  `json:"total"`
	Daily  []float64            `json:"daily"`
	ByType []auditlog.TypeCount `json:"by_type"`
}

func runStats(cmd *cobra.Command, args []string) error {
	days, _ := cmd.Flags().GetInt("days")
	if days <= 0 {
		return fmt.Errorf("days must be greater than 0")
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

	now := time.Now().UTC()
	since := now.Truncate(24*time.Hour).AddDate(0, 0, -(days - 1))

	activity, err := sess.Service.AuditActivity(ctx, since)
	if err != nil {
		return err
	}

	result := statsResult{
		Since:  since,
		Daily:  auditlog.DailySeries(activity.ByDay, since, now),
		ByType: activity.ByType,
	}
	for _, c := range activity.ByType {
		result.Total += c.Count
	}
	if result.ByType == nil {
		result.ByType = []auditlog.TypeCount{}
	}

	if format == "json" {
		return cmdutil.PrintJSON(cmd, result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s since %s\n\n", cmdutil.Count(result.Total, "change"), since.Format("2006-01-02"))
	if result.Total == 0 {
		return nil
	}
	fmt.Fprintln(out, components.ActivityChart("Changes per day", result.Daily, chartWidth, cmdutil.IsInteractive()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, components.TypeChart("By entity type", result.ByType, chartWidth))
	return nil
}
