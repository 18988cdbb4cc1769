package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: debug\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want default json", cfg.Logging.Format)
	}
	if cfg.TradingPost.RequestsPerSecond != 10.0 {
		t.Errorf("RequestsPerSecond = %v, want 10", cfg.TradingPost.RequestsPerSecond)
	}
	if cfg.TradingPost.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", cfg.TradingPost.Timeout)
	}
	if cfg.TradingPost.MaxPagesPerItem != 5 {
		t.Errorf("MaxPagesPerItem = %d, want 5", cfg.TradingPost.MaxPagesPerItem)
	}
	if cfg.Analysis.AnalysisDays != 90 {
		t.Errorf("AnalysisDays = %d, want 90", cfg.Analysis.AnalysisDays)
	}
	if cfg.Analysis.Alpha != 0.3 {
		t.Errorf("Alpha = %v, want 0.3", cfg.Analysis.Alpha)
	}
	if cfg.Analysis.OutlierIQRMult != 3.0 {
		t.Errorf("OutlierIQRMult = %v, want 3", cfg.Analysis.OutlierIQRMult)
	}
	if cfg.Storage.Driver != "json" {
		t.Errorf("Storage.Driver = %q, want json", cfg.Storage.Driver)
	}
	if len(cfg.TradingPost.ExtraItems) != 1 || cfg.TradingPost.ExtraItems[0] != "Blood diamonds" {
		t.Errorf("ExtraItems = %v", cfg.TradingPost.ExtraItems)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
tradingpost:
  requests_per_second: 2.5
  max_pages_per_item: 3
analysis:
  reference_now: "2026-02-01"
  ewma_alpha: 0.5
storage:
  driver: sqlite
  trade_cache_path: ./data/trades.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TradingPost.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.TradingPost.RequestsPerSecond)
	}
	if cfg.Storage.Driver != "sqlite" {
		t.Errorf("Storage.Driver = %q, want sqlite", cfg.Storage.Driver)
	}

	ref, err := cfg.Analysis.ReferenceTime()
	if err != nil {
		t.Fatalf("ReferenceTime() error = %v", err)
	}
	want := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	if !ref.Equal(want) {
		t.Errorf("ReferenceTime() = %v, want %v", ref, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() on a missing file must fail")
	}
}

func TestValidateFailures(t *testing.T) {
	base := func() *Config {
		path := writeConfig(t, "logging:\n  level: info\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"empty api url", func(c *Config) { c.TradingPost.APIBaseURL = "" }, "api_base_url"},
		{"zero rps", func(c *Config) { c.TradingPost.RequestsPerSecond = 0 }, "requests_per_second"},
		{"zero pages", func(c *Config) { c.TradingPost.MaxPagesPerItem = 0 }, "max_pages_per_item"},
		{"bad reference date", func(c *Config) { c.Analysis.ReferenceNow = "soon" }, "reference_now"},
		{"bad cutoff date", func(c *Config) { c.Analysis.UpdateCutoff = "???" }, "update_cutoff"},
		{"alpha too high", func(c *Config) { c.Analysis.Alpha = 1 }, "ewma_alpha"},
		{"alpha zero", func(c *Config) { c.Analysis.Alpha = 0 }, "ewma_alpha"},
		{"negative zone offset", func(c *Config) { c.Analysis.ZoneIQROffset = -1 }, "zone_iqr_offset"},
		{"zero top n", func(c *Config) { c.Analysis.TopN = 0 }, "top_n"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "bolt" }, "storage.driver"},
		{"missing cache path", func(c *Config) { c.Storage.TradeCachePath = "" }, "trade_cache_path"},
		{"telegram enabled without token", func(c *Config) { c.Telegram.Enabled = true }, "bot_token"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() must fail")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q must mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestParseDateLayouts(t *testing.T) {
	for _, value := range []string{"2026-01-15", "2026-01-15T10:30:00Z", "2026-01-15 10:30:00"} {
		if _, err := parseDate(value); err != nil {
			t.Errorf("parseDate(%q) error = %v", value, err)
		}
	}
	if _, err := parseDate("January 15th"); err == nil {
		t.Error("parseDate must reject unknown layouts")
	}
}
