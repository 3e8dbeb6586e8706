package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/logging"
	"github.com/theirongolddev/spendcast/internal/tui"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:         "tui",
	Short:       "Launch the interactive forecast form",
	Annotations: map[string]string{annotationLogToFile: "true"},
	RunE:        runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(settings.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	lipgloss.SetColorProfile(termenv.TrueColor)

	client, err := newClient()
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		Config:       settings,
		Predictor:    client,
		Endpoint:     client.BaseURL(),
		NewPredictor: tuiPredictor,
		Logger:       logging.Component("app"),
		NeedSetup:    !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// tuiPredictor rebuilds the client after the first-run form changes the URL.
func tuiPredictor(cfg config.Config) (forecast.Predictor, string, error) {
	client, err := clientFor(cfg.API)
	if err != nil {
		return nil, "", err
	}
	return client, client.BaseURL(), nil
}
