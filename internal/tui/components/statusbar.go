package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar with key hints on the left
// and the API endpoint on the right.
func RenderStatusBar(width int, hints, endpoint string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " " + hints
	right := ""
	if endpoint != "" {
		right = endpoint + " "
	}

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return style.Render(left + strings.Repeat(" ", padding) + right)
}
