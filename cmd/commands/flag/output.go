package flag

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/flagadmin/cmd/commands/cmdutil"
	"nathanbeddoewebdev/flagadmin/internal/domain"
)

// printFlagDetail prints a vertical key-value table of all flag fields.
func printFlagDetail(out io.Writer, f *domain.FeatureFlag) {
	w := cmdutil.NewTable(out)

	fmt.Fprintf(w, "  Key:\t%s\n", f.Key)
	fmt.Fprintf(w, "  Name:\t%s\n", f.Name)
	if f.Description != "" {
		fmt.Fprintf(w, "  Description:\t%s\n", f.Description)
	}
	fmt.Fprintf(w, "  Enabled:\t%s\n", onOff(f.Enabled))
	fmt.Fprintf(w, "  Rollout:\t%d%%\n", f.RolloutPercent)
	fmt.Fprintf(w, "  Created:\t%s\n", cmdutil.FormatTime(f.CreatedAt))
	fmt.Fprintf(w, "  Updated:\t%s\n", cmdutil.FormatTime(f.UpdatedAt))

	w.Flush()
}

func printFlagTable(out io.Writer, flags []domain.FeatureFlag) {
	w := cmdutil.NewTable(out)
	cmdutil.Header(w, "KEY", "NAME", "ENABLED", "ROLLOUT", "UPDATED")
	for _, f := range flags {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\t%s\n",
			f.Key, f.Name, onOff(f.Enabled), f.RolloutPercent, cmdutil.FormatTime(f.UpdatedAt))
	}
	w.Flush()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
