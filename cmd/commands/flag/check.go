package flag

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/rollout"

	"github.com/spf13/cobra"
)

func CheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <key> <subject>...",
		Short: "Evaluate a flag for one or more subjects",
		Long: `Evaluate a flag for one or more subjects (user IDs, tenant IDs, ...).

A subject always lands in the same bucket for a given flag, so the result
only changes when the flag is toggled or its rollout percentage moves.

Examples:
  flagadmin flag check new-checkout user-42 user-43`,
		Args:         cobra.MinimumNArgs(2),
		RunE:         runCheck,
		SilenceUsage: true,
	}

	cmdutil.AddOutputFlag(cmd)
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmdutil.OutputFormat(cmd)
	if err != nil {
		return err
	}

	sess, ctx, err := cmdutil.Open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	results := make([]rollout.Result, 0, len(args)-1)
	for _, subject := range args[1:] {
		r, err := sess.Service.EvaluateFlag(ctx, args[0], subject)
		if err != nil {
			return err
		}
		results = append(results, r)
	}

	if format == "json" {
		return cmdutil.PrintJSON(cmd, results)
	}

	w := cmdutil.NewTable(cmd.OutOrStdout())
	cmdutil.Header(w, "SUBJECT", "RESULT", "BUCKET", "REASON")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Subject, onOff(r.On), r.Bucket, r.Reason)
	}
	w.Flush()
	return nil
}
