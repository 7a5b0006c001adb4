// Package config handles configuration loading and management for breathcheck.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ShayCichocki/breathcheck/internal/trends"
	"github.com/ShayCichocki/breathcheck/pkg/models"
)

const (
	appName           = "breathcheck"
	projectConfigName = ".breathcheck.yaml"
	envPrefix         = "BREATHCHECK"
)

// Config holds all configuration for breathcheck.
type Config struct {
	Demo    DemoConfig    `mapstructure:"demo"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Trends  TrendsConfig  `mapstructure:"trends"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// DemoConfig controls the simulated test run.
type DemoConfig struct {
	// Speed multiplies every phase duration. 0.5 plays the script twice as fast.
	Speed float64 `mapstructure:"speed"`
	// DefaultOutcome is reported when a run finishes without an override.
	DefaultOutcome string `mapstructure:"default_outcome"`
	// Score is the health score shown on success.
	Score int `mapstructure:"score"`
	// Improvement is the change against the previous test.
	Improvement int `mapstructure:"improvement"`
	// PhasesFile replaces the built-in phase script when set.
	PhasesFile string `mapstructure:"phases_file"`
}

// TUIConfig holds TUI display settings.
type TUIConfig struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// TrendsConfig holds trends screen settings.
type TrendsConfig struct {
	DefaultPeriod int `mapstructure:"default_period"`
}

// LoggingConfig controls where log output goes while the TUI owns the terminal.
type LoggingConfig struct {
	// DebugFile receives log lines. Empty discards them.
	DebugFile string `mapstructure:"debug_file"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (BREATHCHECK_DEMO_SPEED, ...)
// 2. Project config (.breathcheck.yaml in current directory or parent)
// 3. User config (~/.config/breathcheck/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	bindEnv(v)

	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	bindEnv(v)

	return unmarshal(v)
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Demo.PhasesFile = os.ExpandEnv(cfg.Demo.PhasesFile)
	cfg.Logging.DebugFile = os.ExpandEnv(cfg.Logging.DebugFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	if c.Demo.Speed <= 0 {
		return fmt.Errorf("demo.speed must be positive, got %v", c.Demo.Speed)
	}
	if _, err := models.ParseOutcome(c.Demo.DefaultOutcome); err != nil {
		return fmt.Errorf("demo.default_outcome: %w", err)
	}
	if c.Demo.Score < 0 || c.Demo.Score > 100 {
		return fmt.Errorf("demo.score must be between 0 and 100, got %d", c.Demo.Score)
	}
	if c.TUI.RefreshRate <= 0 {
		return fmt.Errorf("tui.refresh_rate must be positive, got %v", c.TUI.RefreshRate)
	}
	if !trends.Period(c.Trends.DefaultPeriod).Valid() {
		return fmt.Errorf("trends.default_period must be 7, 30 or 90, got %d", c.Trends.DefaultPeriod)
	}
	return nil
}

// Outcome returns the parsed default outcome.
func (c *Config) Outcome() models.Outcome {
	o, err := models.ParseOutcome(c.Demo.DefaultOutcome)
	if err != nil {
		return models.DefaultOutcome
	}
	return o
}

// Save writes the current configuration to the user config file.
func Save(cfg *Config) error {
	userConfigDir := getUserConfigDir()
	if err := os.MkdirAll(userConfigDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return SaveToPath(cfg, filepath.Join(userConfigDir, "config.yaml"))
}

// SaveToPath writes cfg as YAML to path.
func SaveToPath(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)

	v.Set("demo.speed", cfg.Demo.Speed)
	v.Set("demo.default_outcome", cfg.Demo.DefaultOutcome)
	v.Set("demo.score", cfg.Demo.Score)
	v.Set("demo.improvement", cfg.Demo.Improvement)
	v.Set("demo.phases_file", cfg.Demo.PhasesFile)
	v.Set("tui.refresh_rate", cfg.TUI.RefreshRate.String())
	v.Set("trends.default_period", cfg.Trends.DefaultPeriod)
	v.Set("logging.debug_file", cfg.Logging.DebugFile)

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("demo.speed", d.Demo.Speed)
	v.SetDefault("demo.default_outcome", d.Demo.DefaultOutcome)
	v.SetDefault("demo.score", d.Demo.Score)
	v.SetDefault("demo.improvement", d.Demo.Improvement)
	v.SetDefault("demo.phases_file", d.Demo.PhasesFile)

	v.SetDefault("tui.refresh_rate", d.TUI.RefreshRate.String())

	v.SetDefault("trends.default_period", d.Trends.DefaultPeriod)

	v.SetDefault("logging.debug_file", d.Logging.DebugFile)
}

// getUserConfigDir returns the XDG config directory for breathcheck.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// findProjectConfig searches for .breathcheck.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, projectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Demo: DemoConfig{
			Speed:          1,
			DefaultOutcome: string(models.DefaultOutcome),
			Score:          87,
			Improvement:    5,
		},
		TUI: TUIConfig{
			RefreshRate: 50 * time.Millisecond,
		},
		Trends: TrendsConfig{
			DefaultPeriod: int(trends.Week),
		},
	}
}
