package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/forecast"
	"github.com/theirongolddev/spendcast/internal/predictapi"
)

var (
	flagPast       []string
	flagCommitment string
	flagJSON       bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Request a one-shot forecast",
	Long: `Request a one-shot forecast from the prediction service.

The number of months sent is the number of --past values. The --months flag
and the [form] months setting only size the interactive form.`,
	Example: `  spendcast predict --past 1200,1350,1280 --commitment 400
  spendcast predict --past 900,,1100 --commitment 50   # blank month fails validation`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringSliceVarP(&flagPast, "past", "p", nil, "Past monthly spending, oldest first (comma separated); one value per month sent")
	predictCmd.Flags().StringVarP(&flagCommitment, "commitment", "c", "", "Upcoming commitments for next month")
	predictCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	_ = predictCmd.MarkFlagRequired("past")
	rootCmd.AddCommand(predictCmd)
}

// predictResult is the --json output.
type predictResult struct {
	PastSpending      []float64 `json:"past_spending"`
	Commitment        float64   `json:"upcoming_commitment"`
	AverageSpending   float64   `json:"average_spending"`
	PredictedExpenses float64   `json:"predicted_expenses"`
	Confidence        *float64  `json:"confidence_score,omitempty"`
}

func runPredict(cmd *cobra.Command, _ []string) error {
	in := inputsFromFlags(flagPast, flagCommitment)
	if f := cmd.Flag("months"); f != nil && f.Changed {
		if msg := monthsMismatch(flagMonths, len(flagPast)); msg != "" {
			log.Warn().Int("months", flagMonths).Int("past", len(flagPast)).Msg(msg)
		}
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	progressf("  Requesting forecast from %s...\n", client.BaseURL())

	coord := forecast.NewCoordinator()
	switch s := coord.Submit(ctx, in, client).(type) {
	case forecast.Succeeded:
		if flagJSON {
			return printPredictJSON(in, s)
		}
		printForecast(in, s)
		return nil

	case forecast.Failed:
		ev := log.Warn().Err(s.Cause).Stringer("kind", s.Kind)
		var verr *forecast.ValidationError
		if errors.As(s.Cause, &verr) {
			ev = ev.Strs("fields", verr.Fields)
		}
		ev.Msg("prediction failed")
		if errors.Is(s.Cause, predictapi.ErrRateLimited) {
			return fmt.Errorf("%s (rate limited, try again later)", s.Message)
		}
		return errors.New(s.Message)

	default:
		return fmt.Errorf("unexpected state %T", s)
	}
}

// monthsMismatch describes an explicit --months that disagrees with the
// number of --past values. Empty when they match.
func monthsMismatch(months, past int) string {
	if months == past {
		return ""
	}
	return fmt.Sprintf("--months=%d ignored; sending the %d --past values given", months, past)
}

// inputsFromFlags builds the form state exactly as if typed into the TUI.
func inputsFromFlags(past []string, commitment string) *forecast.Inputs {
	in := forecast.NewInputs(len(past))
	for i, v := range past {
		_ = in.SetPastSpendingAt(i, v)
	}
	in.SetCommitment(commitment)
	return in
}

func printPredictJSON(in *forecast.Inputs, s forecast.Succeeded) error {
	past := forecast.Amounts(forecast.BuildSeries(in.PastSpending()))
	commitment, _ := forecast.ParseAmount(in.Commitment())
	out := predictResult{
		PastSpending:      past,
		Commitment:        commitment,
		AverageSpending:   cli.Mean(past),
		PredictedExpenses: s.Amount,
	}
	if s.Confidence > 0 {
		c := s.Confidence
		out.Confidence = &c
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printForecast(in *forecast.Inputs, s forecast.Succeeded) {
	points := forecast.BuildSeries(in.PastSpending())
	past := forecast.Amounts(points)
	commitment, _ := forecast.ParseAmount(in.Commitment())

	fmt.Println()
	fmt.Println(cli.RenderTitle("SPENDING FORECAST"))
	fmt.Println()

	peak := s.Amount
	labelW := len("Forecast")
	for _, p := range points {
		peak = max(peak, p.Amount)
		labelW = max(labelW, len(p.Label))
	}
	for _, p := range points {
		fmt.Println(cli.RenderHorizontalBar(p.Label, p.Amount, peak, labelW, 30))
	}
	fmt.Println(cli.RenderHorizontalBar("Forecast", s.Amount, peak, labelW, 30))
	fmt.Println()

	avg := cli.Mean(past)
	rows := [][]string{
		{"Trend", cli.RenderSparkline(append(past, s.Amount))},
		{"Average", cli.FormatAmount(avg)},
		{"Commitments", cli.FormatAmount(commitment)},
		{"vs Average", cli.FormatSignedAmount(s.Amount - avg)},
	}
	if s.Confidence > 0 {
		rows = append(rows, []string{"Confidence", cli.FormatPercent(s.Confidence)})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Println(cli.RenderForecast("Predicted Monthly Expenses", s.Amount))
	fmt.Println()
}
