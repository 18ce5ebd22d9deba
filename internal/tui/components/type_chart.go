package components

import (
	"fmt"

	"nathanbeddoewebdev/flagadmin/internal/auditlog"
	"nathanbeddoewebdev/flagadmin/internal/tui/styles"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
)

// barPalette cycles through the accent colors for successive bars.
var barPalette = []lipgloss.Color{styles.Blue, styles.Green, styles.Yellow, styles.Red, styles.DimBlue}

// TypeChart renders change counts per entity type as a horizontal bar
// chart followed by a legend with the exact counts.
func TypeChart(label string, counts []auditlog.TypeCount, width int) string {
	if len(counts) == 0 {
		return styles.MutedText.Render(label + ": no data")
	}

	data := make([]barchart.BarData, len(counts))
	legend := make([]string, len(counts))
	for i, c := range counts {
		style := lipgloss.NewStyle().Foreground(barPalette[i%len(barPalette)])
		data[i] = barchart.BarData{
			Label: c.EntityType,
			Values: []barchart.BarValue{
				{Name: c.EntityType, Value: float64(c.Count), Style: style},
			},
		}
		legend[i] = style.Render("■") + " " + styles.Value.Render(fmt.Sprintf("%s %d", c.EntityType, c.Count))
	}

	height := len(counts)*2 + 1
	chart := barchart.New(max(width, 20), height, barchart.WithHorizontalBars())
	chart.PushAll(data)
	chart.Draw()

	header := styles.Label.Render(label)
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		chart.View(),
		lipgloss.JoinVertical(lipgloss.Left, legend...),
	)
}
