package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/spendcast/internal/cli"
	"github.com/theirongolddev/spendcast/internal/predictapi"
)

var flagWait time.Duration

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the prediction service and show its model metrics",
	RunE:  runHealth,
}

func init() {
	healthCmd.Flags().DurationVar(&flagWait, "wait", 0, "Keep polling with backoff until healthy or this long has passed (e.g. 30s)")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	progressf("  Checking %s...\n", client.BaseURL())

	health, err := checkHealth(ctx, client, flagWait)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PREDICTION SERVICE"))
	fmt.Println()

	rows := [][]string{
		{"Endpoint", client.BaseURL()},
		{"Status", health.Status},
	}
	if health.Timestamp != "" {
		rows = append(rows, []string{"Timestamp", health.Timestamp})
	}
	rows = append(rows, mapRows(health.ModelInfo)...)
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Health",
		Headers: []string{"Field", "Value"},
		Rows:    rows,
	}))

	metrics, err := client.ModelMetrics(ctx)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("model metrics unavailable")
	case len(metrics) > 0:
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Model Metrics",
			Headers: []string{"Metric", "Value"},
			Rows:    mapRows(metrics),
		}))
	}
	fmt.Println()

	if !health.Healthy() {
		return fmt.Errorf("service reports status %q", health.Status)
	}
	return nil
}

// checkHealth does a single check, or polls with backoff when wait > 0.
func checkHealth(ctx context.Context, client *predictapi.Client, wait time.Duration) (*predictapi.Health, error) {
	if wait <= 0 {
		return client.Health(ctx)
	}
	return client.WaitHealthy(ctx, wait, func(err error, next time.Duration) {
		log.Debug().Err(err).Dur("retry_in", next).Msg("service not ready")
		progressf("  Not ready yet, retrying in %s\n", next.Round(time.Millisecond))
	})
}

// mapRows renders a flat JSON object as sorted key/value rows.
func mapRows(m map[string]any) [][]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, formatValue(m[k])})
	}
	return rows
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case float64:
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x))
		}
		return fmt.Sprintf("%.4g", x)
	case string:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
