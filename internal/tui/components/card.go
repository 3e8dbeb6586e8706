// Package components provides reusable TUI widgets for the spendcast form.
package components

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

// LayoutRow distributes totalWidth into n widths that sum to exactly totalWidth.
// First items absorb the remainder from integer division.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	base := totalWidth / n
	remainder := totalWidth % n
	widths := make([]int, n)
	for i := range widths {
		widths[i] = base
		if i < remainder {
			widths[i]++
		}
	}
	return widths
}

// MetricCard renders a small card with a label, a highlighted value and an
// optional note. outerWidth is the total rendered width including border.
func MetricCard(label, value, note string, valueColor lipgloss.Color, outerWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(valueColor).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	content := labelStyle.Render(label) + "\n" + valueStyle.Render(value)
	if note != "" {
		content += "\n" + noteStyle.Render(note)
	}
	return cardStyle(t.Border, outerWidth).Render(content)
}

// ContentCard renders a bordered content card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	return FocusCard(title, body, outerWidth, false)
}

// FocusCard is a ContentCard whose border lights up when focused.
func FocusCard(title, body string, outerWidth int, focused bool) string {
	t := theme.Active

	border := t.Border
	if focused {
		border = t.BorderFocus
	}
	titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)

	content := ""
	if title != "" {
		content = titleStyle.Render(title) + "\n"
	}
	content += body
	return cardStyle(border, outerWidth).Render(content)
}

func cardStyle(border lipgloss.Color, outerWidth int) lipgloss.Style {
	contentWidth := outerWidth - 2 // border
	if contentWidth < 10 {
		contentWidth = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(contentWidth).
		Padding(0, 1)
}

// CardRow joins pre-rendered cards horizontally. Shorter cards are padded
// with styled blank lines so the row is as tall as the tallest card.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	t := theme.Active
	tallest := 0
	for _, c := range cards {
		tallest = max(tallest, lipgloss.Height(c))
	}
	padded := make([]string, len(cards))
	for i, c := range cards {
		padded[i] = lipgloss.NewStyle().
			Background(t.Surface).
			Height(tallest).
			Render(c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the usable text width inside a ContentCard
// given its outer width (subtracts border + padding).
func CardInnerWidth(outerWidth int) int {
	w := outerWidth - 4 // 2 border + 2 padding
	if w < 10 {
		w = 10
	}
	return w
}
