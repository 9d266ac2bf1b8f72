package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Thresholds is a (warning, critical) rate-threshold pair for one monitored
// status, in percent of total transactions.
type Thresholds struct {
	Warning  float64 `mapstructure:"warning"`
	Critical float64 `mapstructure:"critical"`
}

// Channel is a notification endpoint that receives emitted alerts.
type Channel struct {
	Name    string `mapstructure:"name"`
	Type    string `mapstructure:"type"` // webhook or slack
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

type Config struct {
	Port           int      `mapstructure:"port"`
	DatabasePath   string   `mapstructure:"database_path"`
	LogLevel       string   `mapstructure:"log_level"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// HistoricalCSV seeds the baseline when baseline_stats is empty at startup.
	HistoricalCSV      string `mapstructure:"historical_csv"`
	RequestTimeoutSec  int    `mapstructure:"request_timeout_sec"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`

	// Analysis windows, in minutes.
	WindowShortMin  int `mapstructure:"window_short_min"`  // immediate alerts
	WindowMediumMin int `mapstructure:"window_medium_min"` // trend detection; drives the engine
	WindowLongMin   int `mapstructure:"window_long_min"`   // baseline lookback

	// Statistical thresholds, in standard deviations from the baseline mean.
	SigmaWarning  float64 `mapstructure:"sigma_warning"`
	SigmaCritical float64 `mapstructure:"sigma_critical"`

	// Rule thresholds per monitored status.
	FailedRate          Thresholds `mapstructure:"failed_rate"`
	DeniedRate          Thresholds `mapstructure:"denied_rate"`
	ReversedRate        Thresholds `mapstructure:"reversed_rate"`
	BackendReversedRate Thresholds `mapstructure:"backend_reversed_rate"`

	// MinSamples is the minimum window size before the engine evaluates.
	MinSamples int `mapstructure:"min_samples"`
	// WindowCapacity bounds the in-memory rolling window (FIFO eviction).
	WindowCapacity int `mapstructure:"window_capacity"`
	// AlertHistorySize bounds the in-memory alert recency buffer.
	AlertHistorySize int `mapstructure:"alert_history_size"`

	Channels []Channel `mapstructure:"channels"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("/etc/paywatch/")
	viper.AddConfigPath("$HOME/.paywatch")
	viper.AddConfigPath(".")

	// Defaults
	viper.SetDefault("port", 8080)
	viper.SetDefault("database_path", "./paywatch.db")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("allowed_origins", []string{"*"})
	viper.SetDefault("historical_csv", "")
	viper.SetDefault("request_timeout_sec", 15)
	viper.SetDefault("shutdown_timeout_sec", 15)
	viper.SetDefault("window_short_min", 5)
	viper.SetDefault("window_medium_min", 15)
	viper.SetDefault("window_long_min", 60)
	viper.SetDefault("sigma_warning", 2.0)
	viper.SetDefault("sigma_critical", 3.0)
	viper.SetDefault("failed_rate.warning", 1.0)
	viper.SetDefault("failed_rate.critical", 2.0)
	viper.SetDefault("denied_rate.warning", 10.0)
	viper.SetDefault("denied_rate.critical", 15.0)
	viper.SetDefault("reversed_rate.warning", 2.0)
	viper.SetDefault("reversed_rate.critical", 4.0)
	viper.SetDefault("backend_reversed_rate.warning", 0.5)
	viper.SetDefault("backend_reversed_rate.critical", 1.0)
	viper.SetDefault("min_samples", 5)
	viper.SetDefault("window_capacity", 10000)
	viper.SetDefault("alert_history_size", 100)

	// Environment variables
	viper.SetEnvPrefix("PAYWATCH")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found; using defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects threshold configurations that would make the engine
// misbehave. Called once at startup; a failure here is fatal.
func (c *Config) Validate() error {
	pairs := map[string]Thresholds{
		"failed_rate":           c.FailedRate,
		"denied_rate":           c.DeniedRate,
		"reversed_rate":         c.ReversedRate,
		"backend_reversed_rate": c.BackendReversedRate,
	}
	for name, t := range pairs {
		if t.Warning <= 0 || t.Critical <= 0 {
			return fmt.Errorf("config: %s thresholds must be positive (got warning=%.2f critical=%.2f)", name, t.Warning, t.Critical)
		}
		if t.Warning >= t.Critical {
			return fmt.Errorf("config: %s warning threshold %.2f must be below critical %.2f", name, t.Warning, t.Critical)
		}
	}
	if c.SigmaWarning <= 0 || c.SigmaCritical <= c.SigmaWarning {
		return fmt.Errorf("config: sigma thresholds must satisfy 0 < warning < critical (got %.1f/%.1f)", c.SigmaWarning, c.SigmaCritical)
	}
	if c.WindowMediumMin <= 0 || c.WindowShortMin <= 0 || c.WindowLongMin <= 0 {
		return fmt.Errorf("config: analysis windows must be positive")
	}
	if c.MinSamples < 1 {
		return fmt.Errorf("config: min_samples must be at least 1 (got %d)", c.MinSamples)
	}
	if c.WindowCapacity < 1 || c.AlertHistorySize < 1 {
		return fmt.Errorf("config: window_capacity and alert_history_size must be positive")
	}
	return nil
}

// RuleThresholds maps each monitored status to its configured pair.
func (c *Config) RuleThresholds() map[string]Thresholds {
	return map[string]Thresholds{
		"failed":           c.FailedRate,
		"denied":           c.DeniedRate,
		"reversed":         c.ReversedRate,
		"backend_reversed": c.BackendReversedRate,
	}
}
