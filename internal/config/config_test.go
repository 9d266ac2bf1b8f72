package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Port)
	}
	if cfg.DatabasePath != "./paywatch.db" {
		t.Errorf("Expected default database path './paywatch.db', got %s", cfg.DatabasePath)
	}
	if cfg.WindowMediumMin != 15 {
		t.Errorf("Expected default medium window 15, got %d", cfg.WindowMediumMin)
	}
	if cfg.SigmaWarning != 2.0 || cfg.SigmaCritical != 3.0 {
		t.Errorf("Expected default sigma 2.0/3.0, got %.1f/%.1f", cfg.SigmaWarning, cfg.SigmaCritical)
	}
	if cfg.FailedRate.Warning != 1.0 || cfg.FailedRate.Critical != 2.0 {
		t.Errorf("Expected default failed thresholds 1.0/2.0, got %.1f/%.1f", cfg.FailedRate.Warning, cfg.FailedRate.Critical)
	}
	if cfg.MinSamples != 5 {
		t.Errorf("Expected default min samples 5, got %d", cfg.MinSamples)
	}
	if cfg.WindowCapacity != 10000 {
		t.Errorf("Expected default window capacity 10000, got %d", cfg.WindowCapacity)
	}
	if cfg.AlertHistorySize != 100 {
		t.Errorf("Expected default alert history size 100, got %d", cfg.AlertHistorySize)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	os.Setenv("PAYWATCH_PORT", "9000")
	os.Setenv("PAYWATCH_DATABASE_PATH", "/tmp/test.db")
	os.Setenv("PAYWATCH_MIN_SAMPLES", "10")
	defer func() {
		os.Unsetenv("PAYWATCH_PORT")
		os.Unsetenv("PAYWATCH_DATABASE_PATH")
		os.Unsetenv("PAYWATCH_MIN_SAMPLES")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Port != 9000 {
		t.Errorf("Expected port 9000 from env, got %d", cfg.Port)
	}
	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("Expected database path '/tmp/test.db' from env, got %s", cfg.DatabasePath)
	}
	if cfg.MinSamples != 10 {
		t.Errorf("Expected min samples 10 from env, got %d", cfg.MinSamples)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load should not error when config file is missing: %v", err)
	}
	if cfg == nil {
		t.Fatal("Config should not be nil even without config file")
	}
}

func validConfig() *Config {
	return &Config{
		Port:                8080,
		WindowShortMin:      5,
		WindowMediumMin:     15,
		WindowLongMin:       60,
		SigmaWarning:        2.0,
		SigmaCritical:       3.0,
		FailedRate:          Thresholds{Warning: 1.0, Critical: 2.0},
		DeniedRate:          Thresholds{Warning: 10.0, Critical: 15.0},
		ReversedRate:        Thresholds{Warning: 2.0, Critical: 4.0},
		BackendReversedRate: Thresholds{Warning: 0.5, Critical: 1.0},
		MinSamples:          5,
		WindowCapacity:      10000,
		AlertHistorySize:    100,
	}
}

func TestValidate_RejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"warning above critical", func(c *Config) { c.FailedRate = Thresholds{Warning: 3.0, Critical: 2.0} }},
		{"warning equals critical", func(c *Config) { c.DeniedRate = Thresholds{Warning: 15.0, Critical: 15.0} }},
		{"zero threshold", func(c *Config) { c.ReversedRate = Thresholds{Warning: 0, Critical: 4.0} }},
		{"sigma ordering", func(c *Config) { c.SigmaCritical = 1.0 }},
		{"negative window", func(c *Config) { c.WindowMediumMin = -15 }},
		{"zero min samples", func(c *Config) { c.MinSamples = 0 }},
		{"zero window capacity", func(c *Config) { c.WindowCapacity = 0 }},
		{"zero alert history", func(c *Config) { c.AlertHistorySize = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tc.name)
			}
		})
	}
}

func TestRuleThresholds_CoversMonitoredStatuses(t *testing.T) {
	pairs := validConfig().RuleThresholds()
	for _, status := range []string{"failed", "denied", "reversed", "backend_reversed"} {
		pair, ok := pairs[status]
		if !ok {
			t.Fatalf("missing thresholds for %s", status)
		}
		if pair.Warning >= pair.Critical {
			t.Errorf("%s warning %.2f should be below critical %.2f", status, pair.Warning, pair.Critical)
		}
	}
}
