package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

// Sparkline renders a unicode sparkline from values. Non-positive values
// render as the lowest block.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	return style.Render(cli.RenderSparkline(values))
}

// MonthBars renders one horizontal bar per point, scaled to the largest
// amount. It is the fallback for series too short or too narrow for a line.
func MonthBars(points []forecast.Point, width int) string {
	if len(points) == 0 {
		return ""
	}
	t := theme.Active

	labelW := 0
	amountW := 0
	peak := 0.0
	for _, p := range points {
		labelW = max(labelW, lipgloss.Width(p.Label))
		amountW = max(amountW, lipgloss.Width(cli.FormatAmount(p.Amount)))
		peak = max(peak, p.Amount)
	}
	if peak == 0 {
		peak = 1
	}

	barW := width - labelW - amountW - 2
	if barW < 1 {
		barW = 1
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	rows := make([]string, len(points))
	for i, p := range points {
		filled := 0
		if p.Amount > 0 {
			filled = int(math.Round(p.Amount / peak * float64(barW)))
		}
		filled = min(max(filled, 0), barW)
		rows[i] = labelStyle.Render(fmt.Sprintf("%-*s", labelW, p.Label)) + " " +
			barStyle.Render(strings.Repeat("█", filled)) +
			emptyStyle.Render(strings.Repeat("·", barW-filled)) + " " +
			valueStyle.Render(fmt.Sprintf("%*s", amountW, cli.FormatAmount(p.Amount)))
	}
	return strings.Join(rows, "\n")
}

// niceStep rounds v up to 1, 2 or 5 times a power of ten.
func niceStep(v float64) float64 {
	if v <= 0 {
		return 1
	}
	pow := math.Pow(10, math.Floor(math.Log10(v)))
	switch f := v / pow; {
	case f <= 1:
		return pow
	case f <= 2:
		return 2 * pow
	case f <= 5:
		return 5 * pow
	default:
		return 10 * pow
	}
}

// formatAxisAmount renders compact dollar ticks: $0, $950, $1.2k, $3m.
func formatAxisAmount(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	var s string
	switch {
	case v >= 1e6:
		s = strings.Replace(fmt.Sprintf("%.1fm", v/1e6), ".0", "", 1)
	case v >= 1e3:
		s = strings.Replace(fmt.Sprintf("%.1fk", v/1e3), ".0", "", 1)
	default:
		s = fmt.Sprintf("%.0f", v)
	}
	return sign + "$" + s
}
