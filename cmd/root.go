package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/theirongolddev/spendcast/internal/config"
	"github.com/theirongolddev/spendcast/internal/logging"
	"github.com/theirongolddev/spendcast/internal/predictapi"
)

var (
	flagAPIURL   string
	flagMonths   int
	flagLogLevel string
	flagLogFile  string
	flagQuiet    bool
)

// Command annotations read by loadSettings.
const (
	annotationLogToFile = "spendcast/log-to-file" // keep log lines off the alt-screen
	annotationLenient   = "spendcast/lenient"     // run even when the config is invalid
)

var (
	settings   config.Config
	envApplied []string
	logCloser  io.Closer
)

var rootCmd = &cobra.Command{
	Use:               "spendcast",
	Short:             "Forecast next month's expenses",
	Long:              "Enter recent monthly spending and upcoming commitments, then ask the prediction service for next month's total.",
	SilenceUsage:      true,
	Annotations:       map[string]string{annotationLogToFile: "true"},
	PersistentPreRunE: loadSettings,
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},
	RunE: runTUI,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Prediction service base URL (overrides config and "+config.EnvAPIURL+")")
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "m", 0, "Number of past months to enter")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadSettings resolves the effective configuration (flag > env > file >
// default) and installs the logger.
func loadSettings(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	lenient := cmd.Annotations[annotationLenient] != ""

	cfg, loadErr := config.Load()
	if loadErr != nil && !lenient {
		return loadErr
	}
	envApplied = config.ApplyEnv(&cfg)

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		cfg.API.BaseURL = flagAPIURL
	}
	if flags.Changed("months") {
		cfg.Form.Months = flagMonths
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = strings.ToLower(flagLogLevel)
	}
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	settings = cfg

	if err := config.Validate(cfg); err != nil {
		if !lenient {
			return fmt.Errorf("%w (run `spendcast setup` or edit %s)", err, config.ConfigPath())
		}
		// Lenient commands still need a usable log level.
		cfg.Log.Level = config.DefaultConfig().Log.Level
	}

	opts := logging.Options{Level: cfg.Log.Level, Console: os.Stderr}
	if cmd.Annotations[annotationLogToFile] != "" || cfg.Log.File != "" {
		opts.File = config.LogPath(cfg)
	}
	closer, err := logging.Setup(opts)
	if err != nil {
		return err
	}
	logCloser = closer

	if loadErr != nil {
		log.Warn().Err(loadErr).Msg("config file unreadable, using defaults")
	}
	log.Debug().
		Str("command", cmd.Name()).
		Str("api", cfg.API.BaseURL).
		Strs("env", envApplied).
		Msg("settings loaded")
	return nil
}

// newClient builds the prediction service client from the settings.
func newClient() (*predictapi.Client, error) {
	return clientFor(settings.API)
}

func clientFor(api config.APIConfig) (*predictapi.Client, error) {
	return predictapi.NewClient(api.BaseURL,
		predictapi.WithTimeout(time.Duration(api.RequestTimeoutSec)*time.Second),
		predictapi.WithPredictBudget(api.PredictPerHour),
		predictapi.WithLogger(logging.Component("predictapi")),
	)
}

// progressf prints a progress line to stderr unless --quiet is set.
func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
