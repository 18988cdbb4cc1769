// Package config loads and validates the application configuration from a
// config file with BLOOD_ARB_* environment variable overrides. The reference
// "now" and the game-update cutoff are deliberately configuration, not clock
// reads, so analyses are reproducible and tests can pin arbitrary times.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// dateLayouts are accepted for the reference and cutoff dates.
var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

// Config represents the complete application configuration.
type Config struct {
	TradingPost TradingPostConfig `mapstructure:"tradingpost"`
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Export      ExportConfig      `mapstructure:"export"`
	Telegram    TelegramConfig    `mapstructure:"telegram"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// TradingPostConfig holds trading-post API fetch configuration.
type TradingPostConfig struct {
	APIBaseURL        string        `mapstructure:"api_base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	MaxPagesPerItem   int           `mapstructure:"max_pages_per_item"`
	HistoryDays       int           `mapstructure:"history_days"`
	ExtraItems        []string      `mapstructure:"extra_items"`
}

// AnalysisConfig holds the statistical analysis configuration.
type AnalysisConfig struct {
	ReferenceNow   string  `mapstructure:"reference_now"`
	UpdateCutoff   string  `mapstructure:"update_cutoff"`
	UpdateKeyword  string  `mapstructure:"update_keyword"`
	AnalysisDays   int     `mapstructure:"analysis_days"`
	Alpha          float64 `mapstructure:"ewma_alpha"`
	OutlierIQRMult float64 `mapstructure:"outlier_iqr_mult"`
	ZoneIQROffset  float64 `mapstructure:"zone_iqr_offset"`
	AvoidIQROffset float64 `mapstructure:"avoid_iqr_offset"`
	TopN           int     `mapstructure:"top_n"`
}

// StorageConfig holds trade cache and shop catalog paths.
type StorageConfig struct {
	Driver         string `mapstructure:"driver"`
	TradeCachePath string `mapstructure:"trade_cache_path"`
	ShardShopPath  string `mapstructure:"shard_shop_path"`
	TokenShopPath  string `mapstructure:"token_shop_path"`
}

// ExportConfig holds report output paths.
type ExportConfig struct {
	ReportJSONPath  string `mapstructure:"report_json_path"`
	DetailedCSVPath string `mapstructure:"detailed_csv_path"`
}

// TelegramConfig holds the optional Telegram digest configuration.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("BLOOD_ARB")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	v.SetDefault("tradingpost.api_base_url", "https://hqxg0u8s64.execute-api.ca-central-1.amazonaws.com/Production/tradingpost")
	v.SetDefault("tradingpost.timeout", "10s")
	v.SetDefault("tradingpost.requests_per_second", 10.0)
	v.SetDefault("tradingpost.max_pages_per_item", 5)
	v.SetDefault("tradingpost.history_days", 90)
	v.SetDefault("tradingpost.extra_items", []string{"Blood diamonds"})

	v.SetDefault("analysis.reference_now", "2026-01-15")
	v.SetDefault("analysis.update_cutoff", "2026-01-07")
	v.SetDefault("analysis.update_keyword", "blood")
	v.SetDefault("analysis.analysis_days", 90)
	v.SetDefault("analysis.ewma_alpha", 0.3)
	v.SetDefault("analysis.outlier_iqr_mult", 3.0)
	v.SetDefault("analysis.zone_iqr_offset", 0.25)
	v.SetDefault("analysis.avoid_iqr_offset", 0.5)
	v.SetDefault("analysis.top_n", 15)

	v.SetDefault("storage.driver", "json")
	v.SetDefault("storage.trade_cache_path", "./data/trade_cache.json")
	v.SetDefault("storage.shard_shop_path", "./data/blood_shard_shop.json")
	v.SetDefault("storage.token_shop_path", "./data/blood_synthesis_shop.json")

	v.SetDefault("export.report_json_path", "./data/trade_recommendations.json")
	v.SetDefault("export.detailed_csv_path", "./trade_economics_detailed.csv")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// parseDate accepts a date in any of the supported layouts.
func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// ReferenceTime returns the configured reference "now".
func (c *AnalysisConfig) ReferenceTime() (time.Time, error) {
	t, err := parseDate(c.ReferenceNow)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid analysis.reference_now: %w", err)
	}
	return t, nil
}

// UpdateCutoffTime returns the configured game-update cutoff date.
func (c *AnalysisConfig) UpdateCutoffTime() (time.Time, error) {
	t, err := parseDate(c.UpdateCutoff)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid analysis.update_cutoff: %w", err)
	}
	return t, nil
}

// Validate checks that all configuration values are valid.
func (c *Config) Validate() error {
	if c.TradingPost.APIBaseURL == "" {
		return fmt.Errorf("tradingpost.api_base_url is required")
	}
	if c.TradingPost.RequestsPerSecond <= 0 {
		return fmt.Errorf("tradingpost.requests_per_second must be positive")
	}
	if c.TradingPost.MaxPagesPerItem < 1 {
		return fmt.Errorf("tradingpost.max_pages_per_item must be at least 1")
	}
	if c.TradingPost.HistoryDays < 1 {
		return fmt.Errorf("tradingpost.history_days must be at least 1")
	}

	if _, err := c.Analysis.ReferenceTime(); err != nil {
		return err
	}
	if _, err := c.Analysis.UpdateCutoffTime(); err != nil {
		return err
	}
	if c.Analysis.AnalysisDays < 1 {
		return fmt.Errorf("analysis.analysis_days must be at least 1")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("analysis.ewma_alpha must be between 0 and 1 exclusive")
	}
	if c.Analysis.OutlierIQRMult <= 0 {
		return fmt.Errorf("analysis.outlier_iqr_mult must be positive")
	}
	if c.Analysis.ZoneIQROffset < 0 {
		return fmt.Errorf("analysis.zone_iqr_offset must not be negative")
	}
	if c.Analysis.AvoidIQROffset < 0 {
		return fmt.Errorf("analysis.avoid_iqr_offset must not be negative")
	}
	if c.Analysis.TopN < 1 {
		return fmt.Errorf("analysis.top_n must be at least 1")
	}

	if c.Storage.Driver != "json" && c.Storage.Driver != "sqlite" {
		return fmt.Errorf("storage.driver must be one of: json, sqlite")
	}
	if c.Storage.TradeCachePath == "" {
		return fmt.Errorf("storage.trade_cache_path is required")
	}
	if c.Storage.ShardShopPath == "" {
		return fmt.Errorf("storage.shard_shop_path is required")
	}
	if c.Storage.TokenShopPath == "" {
		return fmt.Errorf("storage.token_shop_path is required")
	}

	if c.Export.ReportJSONPath == "" {
		return fmt.Errorf("export.report_json_path is required")
	}
	if c.Export.DetailedCSVPath == "" {
		return fmt.Errorf("export.detailed_csv_path is required")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
