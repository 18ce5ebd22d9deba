package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"nathanbeddoewebdev/flagadmin/internal/config"

	"github.com/jinzhu/inflection"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// AddOutputFlag registers the -o/--output flag on cmd.
func AddOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "Output format: table or json (default from config, else table)")
}

// OutputFormat returns the format requested with -o, falling back to the
// output config key and then to "table".
func OutputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		if cfg, err := config.Load(); err == nil {
			format = cfg.Output
		}
	}
	if format == "" {
		format = "table"
	}
	if !slices.Contains(config.OutputFormats, format) {
		return "", fmt.Errorf("unsupported output format %q", format)
	}
	return format, nil
}

// PrintJSON encodes v as indented JSON to the command's stdout.
func PrintJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewTable returns a tabwriter over the command's stdout. Callers must Flush.
func NewTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Header writes a header row followed by a dashed separator row.
func Header(w io.Writer, columns ...string) {
	fmt.Fprintln(w, strings.Join(columns, "\t"))
	dashes := make([]string, len(columns))
	for i, c := range columns {
		dashes[i] = strings.Repeat("-", len(c))
	}
	fmt.Fprintln(w, strings.Join(dashes, "\t"))
}

// Count renders n with the singular or plural form of noun.
func Count(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, inflection.Singular(noun))
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}

// FormatTime renders t in local time for tables.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// Dash returns s, or "-" when s is empty.
func Dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// IsInteractive reports whether stdout is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
