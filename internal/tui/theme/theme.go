// Package theme defines the color themes for the spendcast TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme maps the TUI's color roles to concrete colors.
type Theme struct {
	Name        string
	Surface     lipgloss.Color // Card backgrounds
	Border      lipgloss.Color // Idle borders
	BorderFocus lipgloss.Color // Border of the focused field or button
	TextDim     lipgloss.Color // Hints, placeholders, disabled
	TextMuted   lipgloss.Color // Labels
	TextPrimary lipgloss.Color
	Accent      lipgloss.Color // Titles, chart line, active button
	AccentDim   lipgloss.Color // Button background while pending
	Forecast    lipgloss.Color // Predicted amount
	Positive    lipgloss.Color
	Warning     lipgloss.Color
	Error       lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme.
var FlexokiDark = Theme{
	Name:        "flexoki-dark",
	Surface:     lipgloss.Color("#1C1B1A"),
	Border:      lipgloss.Color("#403E3C"),
	BorderFocus: lipgloss.Color("#3AA99F"),
	TextDim:     lipgloss.Color("#575653"),
	TextMuted:   lipgloss.Color("#878580"),
	TextPrimary: lipgloss.Color("#FFFCF0"),
	Accent:      lipgloss.Color("#3AA99F"),
	AccentDim:   lipgloss.Color("#1A3533"),
	Forecast:    lipgloss.Color("#4385BE"),
	Positive:    lipgloss.Color("#879A39"),
	Warning:     lipgloss.Color("#DA702C"),
	Error:       lipgloss.Color("#D14D41"),
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:        "tokyo-night",
	Surface:     lipgloss.Color("#24283B"),
	Border:      lipgloss.Color("#565F89"),
	BorderFocus: lipgloss.Color("#7AA2F7"),
	TextDim:     lipgloss.Color("#565F89"),
	TextMuted:   lipgloss.Color("#A9B1D6"),
	TextPrimary: lipgloss.Color("#C0CAF5"),
	Accent:      lipgloss.Color("#7AA2F7"),
	AccentDim:   lipgloss.Color("#252B3F"),
	Forecast:    lipgloss.Color("#7DCFFF"),
	Positive:    lipgloss.Color("#9ECE6A"),
	Warning:     lipgloss.Color("#FF9E64"),
	Error:       lipgloss.Color("#F7768E"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:        "terminal",
	Surface:     lipgloss.Color("0"),
	Border:      lipgloss.Color("8"),
	BorderFocus: lipgloss.Color("6"),
	TextDim:     lipgloss.Color("8"),
	TextMuted:   lipgloss.Color("7"),
	TextPrimary: lipgloss.Color("15"),
	Accent:      lipgloss.Color("6"),
	AccentDim:   lipgloss.Color("0"),
	Forecast:    lipgloss.Color("4"),
	Positive:    lipgloss.Color("2"),
	Warning:     lipgloss.Color("3"),
	Error:       lipgloss.Color("1"),
}

// All available themes.
var All = []Theme{FlexokiDark, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}
