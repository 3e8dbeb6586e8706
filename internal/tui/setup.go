package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

// SetupValues holds the answers collected by the setup form.
type SetupValues struct {
	BaseURL string
	Months  int
	Theme   string
}

// SetupValuesFrom seeds the form with the current configuration.
func SetupValuesFrom(cfg config.Config) *SetupValues {
	return &SetupValues{
		BaseURL: cfg.API.BaseURL,
		Months:  cfg.Form.Months,
		Theme:   cfg.Appearance.Theme,
	}
}

// Apply copies the answers onto cfg.
func (v *SetupValues) Apply(cfg *config.Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(v.BaseURL), "/")
	cfg.Form.Months = v.Months
	cfg.Appearance.Theme = v.Theme
}

var monthChoices = []int{1, 2, 3, 4, 6, 12}

// NewSetupForm builds the huh form used both for first-run setup inside the
// TUI and by the setup command.
func NewSetupForm(vals *SetupValues) *huh.Form {
	monthOpts := make([]huh.Option[int], 0, len(monthChoices)+1)
	seen := false
	for _, m := range monthChoices {
		monthOpts = append(monthOpts, huh.NewOption(monthLabel(m), m))
		seen = seen || m == vals.Months
	}
	if !seen && vals.Months > 0 {
		monthOpts = append(monthOpts, huh.NewOption(monthLabel(vals.Months), vals.Months))
	}

	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to spendcast").
				Description("Forecast next month's expenses from your recent spending.\nThese settings are saved to "+config.ConfigPath()+"."),
			huh.NewInput().
				Title("Prediction service URL").
				Placeholder("http://localhost:5000").
				Value(&vals.BaseURL).
				Validate(config.ValidateBaseURL),
			huh.NewSelect[int]().
				Title("Months of past spending").
				Options(monthOpts...).
				Value(&vals.Months),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	)
}

func monthLabel(m int) string {
	if m == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", m)
}
