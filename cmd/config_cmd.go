// Package cmd implements the spendcast CLI commands.
package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/theirongolddev/spendcast/internal/config"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Show the effective configuration",
	Annotations: map[string]string{annotationLenient: "true"},
	RunE:        runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg := settings

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	flags := cmd.Flags()
	source := func(flag, env string) string {
		switch {
		case flag != "" && flags.Changed(flag):
			return "  (--" + flag + ")"
		case env != "" && slices.Contains(envApplied, env):
			return "  (" + env + ")"
		}
		return ""
	}

	fmt.Println("  [API]")
	fmt.Printf("    Base URL:         %s%s\n", cfg.API.BaseURL, source("api-url", config.EnvAPIURL))
	if cfg.API.RequestTimeoutSec > 0 {
		fmt.Printf("    Request timeout:  %ds\n", cfg.API.RequestTimeoutSec)
	} else {
		fmt.Println("    Request timeout:  none")
	}
	if cfg.API.PredictPerHour > 0 {
		fmt.Printf("    Predict budget:   %d/hour\n", cfg.API.PredictPerHour)
	} else {
		fmt.Println("    Predict budget:   unlimited")
	}
	fmt.Println()

	fmt.Println("  [Form]")
	fmt.Printf("    Months:           %d%s\n", cfg.Form.Months, source("months", ""))
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:            %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:            %s%s\n", cfg.Log.Level, source("log-level", config.EnvLogLevel))
	fmt.Printf("    File:             %s%s\n", config.LogPath(cfg), source("log-file", ""))
	fmt.Println()

	if err := config.Validate(cfg); err != nil {
		fmt.Printf("  Problem: %s\n\n", err)
	}

	fmt.Println("  Run `spendcast setup` to reconfigure.")
	return nil
}
