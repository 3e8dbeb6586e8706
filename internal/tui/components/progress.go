package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

// ColorForShare returns green/yellow/red as a share of the budget grows.
func ColorForShare(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 0.75:
		return t.Error
	case pct >= 0.4:
		return t.Warning
	default:
		return t.Positive
	}
}

// ShareOf returns part/whole clamped to [0, 1]; zero when whole is not positive.
func ShareOf(part, whole float64) float64 {
	if whole <= 0 || part <= 0 {
		return 0
	}
	return min(part/whole, 1)
}

// ShareBar renders a labeled bar showing what fraction of the forecast is
// already committed.
func ShareBar(label string, pct float64, labelW, barWidth int) string {
	t := theme.Active
	pct = min(max(pct, 0), 1)
	color := ColorForShare(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(max(barWidth, 4)),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(color).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(pct) + " " +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100))
}
