package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ShayCichocki/breathcheck/internal/config"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Manage configuration",
	Long: `View or modify BreathCheck configuration.

Without arguments, displays current configuration.
With one argument (key), displays the value for that key.
With two arguments (key value), sets the configuration value.

Configuration is stored at ~/.config/breathcheck/config.yaml
Project-specific overrides can be placed in .breathcheck.yaml`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			displayAllConfig(out, cfg)
			return nil
		case 1:
			value, err := getConfigValue(cfg, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out, value)
			return nil
		default:
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(out, "Set %s = %s\n", args[0], args[1])
			return nil
		}
	},
}

// configKeys lists every key in display order.
var configKeys = []string{
	"demo.speed",
	"demo.default_outcome",
	"demo.score",
	"demo.improvement",
	"demo.phases_file",
	"tui.refresh_rate",
	"trends.default_period",
	"logging.debug_file",
}

// displayAllConfig prints all configuration values.
func displayAllConfig(out io.Writer, cfg *config.Config) {
	for _, key := range configKeys {
		value, _ := getConfigValue(cfg, key)
		fmt.Fprintf(out, "%s: %s\n", key, value)
	}
}

// getConfigValue retrieves a configuration value by dot-notation key.
func getConfigValue(cfg *config.Config, key string) (string, error) {
	switch strings.ToLower(key) {
	case "demo.speed":
		return strconv.FormatFloat(cfg.Demo.Speed, 'g', -1, 64), nil
	case "demo.default_outcome":
		return cfg.Demo.DefaultOutcome, nil
	case "demo.score":
		return strconv.Itoa(cfg.Demo.Score), nil
	case "demo.improvement":
		return strconv.Itoa(cfg.Demo.Improvement), nil
	case "demo.phases_file":
		return orNotSet(cfg.Demo.PhasesFile), nil
	case "tui.refresh_rate":
		return cfg.TUI.RefreshRate.String(), nil
	case "trends.default_period":
		return strconv.Itoa(cfg.Trends.DefaultPeriod), nil
	case "logging.debug_file":
		return orNotSet(cfg.Logging.DebugFile), nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// setConfigValue sets a configuration value by dot-notation key.
func setConfigValue(cfg *config.Config, key, value string) error {
	switch strings.ToLower(key) {
	case "demo.speed":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for demo.speed: %w", err)
		}
		cfg.Demo.Speed = f
	case "demo.default_outcome":
		o, err := models.ParseOutcome(value)
		if err != nil {
			return fmt.Errorf("invalid value for demo.default_outcome: %w", err)
		}
		cfg.Demo.DefaultOutcome = string(o)
	case "demo.score":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for demo.score: %w", err)
		}
		cfg.Demo.Score = n
	case "demo.improvement":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid value for demo.improvement: %w", err)
		}
		cfg.Demo.Improvement = n
	case "demo.phases_file":
		cfg.Demo.PhasesFile = value
	case "tui.refresh_rate":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration for refresh_rate: %w", err)
		}
		cfg.TUI.RefreshRate = d
	case "trends.default_period":
		n, err := strconv.Atoi(strings.TrimSuffix(value, "d"))
		if err != nil {
			return fmt.Errorf("invalid value for trends.default_period: %w", err)
		}
		cfg.Trends.DefaultPeriod = n
	case "logging.debug_file":
		cfg.Logging.DebugFile = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
