package components

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/internal/tui/styles"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// chartHeight is the fixed height of the activity line chart.
const chartHeight = 6

// ActivityChart renders a per-day series of change counts as a line
// chart with a label header and a total/peak summary.
// Returns a muted placeholder if data is empty.
func ActivityChart(label string, data []float64, width int, color bool) string {
	if len(data) == 0 {
		return styles.MutedText.Render(label + ": no data")
	}

	// Reserve space for Y-axis labels (number + " ┤" ≈ 9 chars).
	plotWidth := max(width-9, 10)

	opts := []asciigraph.Option{
		asciigraph.Height(chartHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(0),
	}
	if color {
		opts = append(opts,
			asciigraph.SeriesColors(asciigraph.DodgerBlue),
			asciigraph.LabelColor(asciigraph.Default),
		)
	}
	chart := asciigraph.Plot(data, opts...)

	total, peak := sumMax(data)
	summary := styles.MutedText.Render(
		fmt.Sprintf("  total: %s  peak/day: %s  today: %s",
			formatCount(total), formatCount(peak), formatCount(data[len(data)-1])),
	)

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left, header, chart, summary)
}

func sumMax(data []float64) (sum, peak float64) {
	for _, v := range data {
		sum += v
		if v > peak {
			peak = v
		}
	}
	return sum, peak
}

// formatCount renders a count, abbreviating large values.
func formatCount(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 10_000:
		return fmt.Sprintf("%.1fK", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}
