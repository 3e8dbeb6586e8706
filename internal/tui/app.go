// Package tui provides the interactive Bubble Tea form for spendcast.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/tui/components"
	"github.com/theirongolddev/spendcast/internal/tui/theme"
)

// predictionMsg carries the outcome of one prediction exchange.
type predictionMsg struct {
	res forecast.Prediction
	err error
}

// Options configures a new App.
type Options struct {
	Config    config.Config
	Predictor forecast.Predictor
	Endpoint  string // shown in the status bar
	Logger    zerolog.Logger

	// NewPredictor rebuilds the predictor when setup changes the service
	// URL. When nil the original predictor is kept.
	NewPredictor func(config.Config) (forecast.Predictor, string, error)

	// NeedSetup shows the first-run setup form before the main screen.
	NeedSetup bool
	// SaveConfig persists the setup answers. Defaults to config.Save.
	SaveConfig func(config.Config) error
}

// App is the root Bubble Tea model.
type App struct {
	inputs    *forecast.Inputs
	coord     *forecast.Coordinator
	predictor forecast.Predictor
	endpoint  string
	logger    zerolog.Logger

	// One field per past month, then the commitment field.
	fields []textinput.Model
	focus  int

	spinner spinner.Model

	// UI state
	width    int
	height   int
	showHelp bool

	// First-run setup (huh form)
	cfg          config.Config
	saveConfig   func(config.Config) error
	newPredictor func(config.Config) (forecast.Predictor, string, error)
	setupForm  *huh.Form
	setupVals  *SetupValues
	needSetup  bool
	setupErr   error
	clientErr  error
}

const (
	minTerminalWidth = 50
	splitWidth       = 90 // side-by-side form and chart at or above this width
	maxContentWidth  = 140

	fieldLabelWidth  = 12
	fieldInputWidth  = 14
	minChartHeight   = 8
	statusBarHeight  = 1
	headerHeight     = 2
	resultCardHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	months := opts.Config.Form.Months
	if months <= 0 {
		months = forecast.DefaultMonths
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	save := opts.SaveConfig
	if save == nil {
		save = config.Save
	}

	a := App{
		coord:      forecast.NewCoordinator(),
		predictor:  opts.Predictor,
		endpoint:   opts.Endpoint,
		logger:     opts.Logger.With().Str("component", "tui").Logger(),
		spinner:    sp,
		cfg:          opts.Config,
		saveConfig:   save,
		newPredictor: opts.NewPredictor,
		needSetup:    opts.NeedSetup,
	}
	a.resetFields(months)

	if a.needSetup {
		a.setupVals = SetupValuesFrom(opts.Config)
		a.setupForm = NewSetupForm(a.setupVals)
	}
	return a
}

// resetFields rebuilds the inputs and their text fields for n months.
func (a *App) resetFields(n int) {
	a.inputs = forecast.NewInputs(n)
	a.fields = make([]textinput.Model, a.inputs.Len()+1)
	for i := range a.fields {
		ti := textinput.New()
		ti.Prompt = "$ "
		ti.Placeholder = "0.00"
		ti.Width = fieldInputWidth
		a.fields[i] = ti
	}
	a.focus = 0
	a.fields[0].Focus()
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.Init()
	}
	return textinput.Blink
}

// commitmentIndex is the field index of the commitment input.
func (a App) commitmentIndex() int { return a.inputs.Len() }

// submitIndex is the focus index of the submit button.
func (a App) submitIndex() int { return a.inputs.Len() + 1 }

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "f1" || (key == "?" && a.focus == a.submitIndex()) {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		switch key {
		case "esc":
			return a, tea.Quit
		case "tab", "down":
			return a, a.moveFocus(1)
		case "shift+tab", "up":
			return a, a.moveFocus(-1)
		case "ctrl+s":
			return a.submit()
		case "enter":
			if a.focus == a.submitIndex() {
				return a.submit()
			}
			return a, a.moveFocus(1)
		case "q":
			if a.focus == a.submitIndex() {
				return a, tea.Quit
			}
		}

		if a.focus < len(a.fields) {
			var cmd tea.Cmd
			a.fields[a.focus], cmd = a.fields[a.focus].Update(msg)
			a.syncField(a.focus)
			return a, cmd
		}
		return a, nil

	case predictionMsg:
		a.coord.Settle(msg.res, msg.err)
		a.logOutcome()
		return a, nil

	case spinner.TickMsg:
		if a.coord.Pending() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.focus < len(a.fields) {
		var cmd tea.Cmd
		a.fields[a.focus], cmd = a.fields[a.focus].Update(msg)
		return a, cmd
	}
	return a, nil
}

// moveFocus cycles focus through the fields and the submit button.
func (a *App) moveFocus(delta int) tea.Cmd {
	total := a.submitIndex() + 1
	if a.focus < len(a.fields) {
		a.fields[a.focus].Blur()
	}
	a.focus = (a.focus + delta + total) % total
	if a.focus < len(a.fields) {
		return a.fields[a.focus].Focus()
	}
	return nil
}

// syncField copies a text field's value into the inputs.
func (a *App) syncField(i int) {
	v := a.fields[i].Value()
	if i == a.commitmentIndex() {
		a.inputs.SetCommitment(v)
		return
	}
	if err := a.inputs.SetPastSpendingAt(i, v); err != nil {
		a.logger.Error().Err(err).Int("slot", i).Msg("field out of range")
	}
}

// submit starts a prediction unless one is already in flight.
func (a App) submit() (tea.Model, tea.Cmd) {
	req, ok := a.coord.Begin(a.inputs)
	if !ok {
		if f, isFailed := a.coord.State().(forecast.Failed); isFailed {
			a.logger.Debug().Err(f.Cause).Msg("submit rejected")
		}
		return a, nil
	}
	a.logger.Debug().
		Int("months", len(req.PastSpending)).
		Msg("prediction requested")
	return a, tea.Batch(a.spinner.Tick, predictCmd(a.predictor, req))
}

func (a App) logOutcome() {
	switch s := a.coord.State().(type) {
	case forecast.Succeeded:
		a.logger.Info().
			Float64("amount", s.Amount).
			Float64("confidence", s.Confidence).
			Msg("prediction received")
	case forecast.Failed:
		a.logger.Warn().Err(s.Cause).Stringer("kind", s.Kind).Msg("prediction failed")
	}
}

// predictCmd performs the exchange off the update loop.
func predictCmd(p forecast.Predictor, req forecast.Request) tea.Cmd {
	return func() tea.Msg {
		if p == nil {
			return predictionMsg{err: errors.New("no prediction service configured")}
		}
		res, err := p.Predict(context.Background(), req)
		return predictionMsg{res: res, err: err}
	}
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.finishSetup()
		return a, textinput.Blink
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, textinput.Blink
	}
	return a, cmd
}

// finishSetup saves the answers and applies those that take effect live.
func (a *App) finishSetup() {
	oldURL := a.cfg.API.BaseURL
	a.setupVals.Apply(&a.cfg)
	theme.SetActive(a.cfg.Appearance.Theme)
	a.spinner.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent)

	if a.cfg.Form.Months != a.inputs.Len() && a.inputsEmpty() {
		a.resetFields(a.cfg.Form.Months)
	}

	if a.cfg.API.BaseURL != oldURL && a.newPredictor != nil {
		p, endpoint, err := a.newPredictor(a.cfg)
		if err != nil {
			a.clientErr = err
			a.logger.Error().Err(err).Str("url", a.cfg.API.BaseURL).Msg("rebuilding client")
		} else {
			a.predictor = p
			a.endpoint = endpoint
			a.clientErr = nil
		}
	}

	if err := a.saveConfig(a.cfg); err != nil {
		a.setupErr = err
		a.logger.Error().Err(err).Msg("saving setup config")
	}
	a.needSetup = false
	a.setupForm = nil
}

func (a App) inputsEmpty() bool {
	for _, v := range a.inputs.PastSpending() {
		if v != "" {
			return false
		}
	}
	return a.inputs.Commitment() == ""
}

// State exposes the coordinator state.
func (a App) State() forecast.State {
	return a.coord.State()
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  spendcast needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderFocus).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"tab ↓", "Next field"},
		{"shift+tab ↑", "Previous field"},
		{"enter", "Next field / Predict on button"},
		{"ctrl+s", "Predict from anywhere"},
		{"f1", "Toggle help"},
		{"esc ctrl+c", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-12s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
		cardStyle.Render(b.String()))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	titleStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	header := titleStyle.Render(" ◈ spendcast") + subtitleStyle.Render(" · Expense Forecast") + "\n"

	hints := "[tab]next  [ctrl+s]predict  [f1]help  [esc]quit"
	statusBar := components.RenderStatusBar(w, hints, a.endpoint)

	contentH := max(h-headerHeight-statusBarHeight, minChartHeight)

	formCard := a.renderForm(cw)
	result := a.renderResult(cw)

	var top string
	if cw >= splitWidth {
		widths := components.LayoutRow(cw, 2)
		formCard = a.renderForm(widths[0])
		chartH := max(lipgloss.Height(formCard)-3, minChartHeight)
		chartCard := a.renderChart(widths[1], chartH)
		top = components.CardRow([]string{formCard, chartCard})
	} else {
		chartH := max(contentH-lipgloss.Height(formCard)-resultCardHeight-3, minChartHeight)
		top = lipgloss.JoinVertical(lipgloss.Left, formCard, a.renderChart(cw, chartH))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, top, result)
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.PlaceHorizontal(w, lipgloss.Center, content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// renderForm renders the input fields and the submit button.
func (a App) renderForm(outerWidth int) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	focusLabel := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)

	row := func(i int, label string) string {
		style := labelStyle
		if i == a.focus {
			style = focusLabel
		}
		return style.Render(fmt.Sprintf("%-*s", fieldLabelWidth, label)) + a.fields[i].View()
	}

	var b strings.Builder
	b.WriteString(sectionStyle.Render("Past Monthly Spending"))
	b.WriteString("\n")
	for i := 0; i < a.inputs.Len(); i++ {
		b.WriteString(row(i, forecast.MonthLabel(i)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("Upcoming Commitments"))
	b.WriteString("\n")
	b.WriteString(row(a.commitmentIndex(), "Amount"))
	b.WriteString("\n\n")
	b.WriteString(a.renderSubmit())

	return components.FocusCard("", b.String(), outerWidth, a.focus < len(a.fields))
}

// renderSubmit renders the submit button, disabled while pending.
func (a App) renderSubmit() string {
	t := theme.Active
	base := lipgloss.NewStyle().Padding(0, 2).Bold(true)

	if a.coord.Pending() {
		return base.
			Foreground(t.TextDim).
			Background(t.AccentDim).
			Render(a.spinner.View() + " Calculating...")
	}

	label := "Predict Expenses"
	if a.focus == a.submitIndex() {
		return base.Foreground(t.Surface).Background(t.Accent).Render("▸ " + label)
	}
	return base.Foreground(t.Accent).Background(t.AccentDim).Render("  " + label)
}

func (a App) renderChart(outerWidth, chartHeight int) string {
	points := forecast.BuildSeries(a.inputs.PastSpending())
	inner := components.CardInnerWidth(outerWidth)
	body := components.SpendingChart(points, inner, chartHeight)
	return components.ContentCard("Spending Trend", body, outerWidth)
}

// renderResult renders the area below the form for the current state.
func (a App) renderResult(width int) string {
	t := theme.Active
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Padding(0, 1)
	errStyle := lipgloss.NewStyle().Foreground(t.Error).Bold(true).Padding(0, 1)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Padding(0, 1)

	var parts []string
	if a.setupErr != nil {
		parts = append(parts, warnStyle.Render("Could not save config: "+a.setupErr.Error()))
	}
	if a.clientErr != nil {
		parts = append(parts, warnStyle.Render("Still using "+a.endpoint+": "+a.clientErr.Error()))
	}

	switch s := a.coord.State().(type) {
	case forecast.Idle:
		parts = append(parts, dimStyle.Render("Fill in your spending, then press ctrl+s to forecast."))
	case forecast.Pending:
		parts = append(parts, dimStyle.Render(a.spinner.View()+" Calculating..."))
	case forecast.Succeeded:
		parts = append(parts, a.renderForecast(s, width))
	case forecast.Failed:
		parts = append(parts, errStyle.Render("! "+s.Message))
		if s.Previous != nil {
			parts = append(parts, a.renderForecast(*s.Previous, width))
		}
	}
	return strings.Join(parts, "\n")
}

// renderForecast renders the predicted amount next to how much of it is
// already committed, both taken from the request that produced it.
func (a App) renderForecast(s forecast.Succeeded, width int) string {
	t := theme.Active

	note := ""
	past := s.Request.PastSpending
	if len(past) > 0 {
		note = cli.FormatSignedAmount(s.Amount-cli.Mean(past)) + " vs average"
	}
	if s.Confidence > 0 {
		if note != "" {
			note += " · "
		}
		note += cli.FormatPercent(s.Confidence) + " confidence"
	}

	widths := components.LayoutRow(width, 2)
	amountCard := components.MetricCard("Predicted Monthly Expenses", cli.FormatAmount(s.Amount), note, t.Forecast, widths[0])

	if len(s.Request.Commitments) == 0 {
		return amountCard
	}
	commitment := s.Request.Commitments[0]
	inner := components.CardInnerWidth(widths[1])
	bar := components.ShareBar("Committed", components.ShareOf(commitment, s.Amount), 10, inner-16)
	shareCard := components.ContentCard("Upcoming Commitments "+cli.FormatAmount(commitment), bar, widths[1])
	return components.CardRow([]string{amountCard, shareCard})
}

// ─── Helpers ────────────────────────────────────────────────────

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
