package audit

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/domain"
	"nathanbeddoewebdev/flagadmin/internal/tui"

	"github.com/spf13/cobra"
)

func BrowseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the audit log interactively",
		Long: `Open a full-screen browser over the audit log with a field diff of the
selected entry. Accepts the same filters as "audit list".

Examples:
  flagadmin audit browse
  flagadmin audit browse --type User --limit 200`,
		RunE:         runBrowse,
		SilenceUsage: true,
	}

	addFilterFlags(cmd, 200)

	return cmd
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !cmdutil.IsInteractive() {
		return fmt.Errorf("audit browse requires a terminal; use \"audit list\" instead")
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

	// Fail before entering the alternate screen when the operator cannot read.
	if err := sess.Service.Authorize(ctx, domain.PermAuditRead); err != nil {
		return err
	}

	types := domain.NewAuditRegistry().Types()
	return tui.RunAuditBrowser(ctx, sess.Service.ListAudit, filter, types, sess.Operator)
}
