// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/artpar/tiger/core/diagnostics"
	"github.com/artpar/tiger/core/formatter"
	"github.com/artpar/tiger/domain/report"
)

// DefaultFile is the config file looked up when none is given.
const DefaultFile = "tiger.yaml"

// Config is the root configuration structure.
type Config struct {
	Game       GameConfig       `yaml:"game"`
	Mod        ModConfig        `yaml:"mod"`
	Report     ReportConfig     `yaml:"report"`
	Validation ValidationConfig `yaml:"validation"`
	Index      IndexConfig      `yaml:"index"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Watch      WatchConfig      `yaml:"watch"`
}

// GameConfig locates the base game.
type GameConfig struct {
	Path string `yaml:"path"` // game directory; empty means search the Steam library
}

// ModConfig locates the mod under test.
type ModConfig struct {
	Path string `yaml:"path"` // descriptor.mod, or the directory holding it
}

// ReportConfig controls which diagnostics are shown and how.
type ReportConfig struct {
	MinLevel    string `yaml:"min_level"`    // "advice", "info", "warning", "error"
	ShowVanilla bool   `yaml:"show_vanilla"` // also report problems in base-game files
	Format      string `yaml:"format"`       // "console", "table", "json", "yaml"
	Color       string `yaml:"color"`        // "auto", "always", "never"
	FailOn      string `yaml:"fail_on"`      // severity that makes validate exit non-zero, or "never"
	Filter      string `yaml:"filter"`       // expression a diagnostic must satisfy to be shown
}

// ValidationConfig tunes the validator.
type ValidationConfig struct {
	MaxDepth int `yaml:"max_depth"` // nesting ceiling for effect and trigger blocks
	Jobs     int `yaml:"jobs"`      // files parsed and validated concurrently
}

// IndexConfig configures the persisted item index.
type IndexConfig struct {
	DSN string `yaml:"dsn"` // sqlite path; empty keeps the index in memory
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"` // write metrics here after each run
	Listen   string `yaml:"listen"`   // status server address in watch mode
	OpenAPI  bool   `yaml:"openapi"`  // serve /swagger/ and the API description on the status server
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(&cfg)

	setDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
//
// Environment variables:
//
//	TIGER_GAME_PATH            - Game directory (default: Steam library lookup)
//	TIGER_MOD_PATH             - Mod descriptor or directory
//	TIGER_REPORT_MIN_LEVEL     - advice, info, warning, error (default: info)
//	TIGER_REPORT_SHOW_VANILLA  - Report base-game problems (default: false)
//	TIGER_REPORT_FORMAT        - console, table, json, yaml (default: console)
//	TIGER_REPORT_COLOR         - auto, always, never (default: auto)
//	TIGER_REPORT_FAIL_ON       - Severity that fails validate (default: never)
//	TIGER_REPORT_FILTER        - Expression a diagnostic must satisfy to be shown
//	TIGER_VALIDATION_MAX_DEPTH - Nesting ceiling (default: 256)
//	TIGER_VALIDATION_JOBS      - Worker count (default: number of CPUs)
//	TIGER_INDEX_DSN            - sqlite item index path (default: in memory)
//	TIGER_LOG_LEVEL            - debug, info, warn, error (default: warn)
//	TIGER_LOG_FORMAT           - json or console (default: console)
//	TIGER_METRICS_TEXTFILE     - Prometheus textfile path
//	TIGER_METRICS_LISTEN       - Status server address for watch mode
//	TIGER_METRICS_OPENAPI      - Serve a Swagger UI on the status server (default: false)
//	TIGER_WATCH_DEBOUNCE       - Quiet period before revalidating (default: 500ms)
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadWithFallback loads path when it exists and falls back to the
// environment otherwise. An explicitly named file that is missing is an
// error; the default file name is optional.
func LoadWithFallback(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
		if _, err := os.Stat(path); err != nil {
			return LoadFromEnv()
		}
	}
	return Load(path)
}

// applyEnvOverrides applies TIGER_* environment variables to the config.
// Environment variables always override file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("TIGER_GAME_PATH"); v != "" {
		cfg.Game.Path = v
	}
	if v := os.Getenv("TIGER_MOD_PATH"); v != "" {
		cfg.Mod.Path = v
	}

	// Report configuration
	if v := os.Getenv("TIGER_REPORT_MIN_LEVEL"); v != "" {
		cfg.Report.MinLevel = v
	}
	if v := os.Getenv("TIGER_REPORT_SHOW_VANILLA"); v != "" {
		cfg.Report.ShowVanilla = parseBool(v)
	}
	if v := os.Getenv("TIGER_REPORT_FORMAT"); v != "" {
		cfg.Report.Format = v
	}
	if v := os.Getenv("TIGER_REPORT_COLOR"); v != "" {
		cfg.Report.Color = v
	}
	if v := os.Getenv("TIGER_REPORT_FAIL_ON"); v != "" {
		cfg.Report.FailOn = v
	}
	if v := os.Getenv("TIGER_REPORT_FILTER"); v != "" {
		cfg.Report.Filter = v
	}

	// Validation configuration
	if v := os.Getenv("TIGER_VALIDATION_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Validation.MaxDepth = n
		}
	}
	if v := os.Getenv("TIGER_VALIDATION_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Validation.Jobs = n
		}
	}

	if v := os.Getenv("TIGER_INDEX_DSN"); v != "" {
		cfg.Index.DSN = v
	}

	// Logging configuration
	if v := os.Getenv("TIGER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TIGER_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Metrics configuration
	if v := os.Getenv("TIGER_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
	if v := os.Getenv("TIGER_METRICS_LISTEN"); v != "" {
		cfg.Metrics.Listen = v
	}
	if v := os.Getenv("TIGER_METRICS_OPENAPI"); v != "" {
		cfg.Metrics.OpenAPI = parseBool(v)
	}

	if v := os.Getenv("TIGER_WATCH_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Watch.Debounce = d
		}
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Report.MinLevel == "" {
		cfg.Report.MinLevel = "info"
	}
	if cfg.Report.Format == "" {
		cfg.Report.Format = "console"
	}
	if cfg.Report.Color == "" {
		cfg.Report.Color = "auto"
	}
	if cfg.Report.FailOn == "" {
		cfg.Report.FailOn = "never"
	}

	if cfg.Validation.MaxDepth == 0 {
		cfg.Validation.MaxDepth = 256
	}
	if cfg.Validation.Jobs == 0 {
		cfg.Validation.Jobs = runtime.NumCPU()
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "warn"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
}

// Validate checks a fully defaulted configuration.
func Validate(cfg *Config) error {
	if _, err := report.ParseSeverity(cfg.Report.MinLevel); err != nil {
		return fmt.Errorf("report.min_level: %w", err)
	}
	if cfg.Report.FailOn != "never" {
		if _, err := report.ParseSeverity(cfg.Report.FailOn); err != nil {
			return fmt.Errorf("report.fail_on: %w", err)
		}
	}
	if _, ok := formatter.Get(cfg.Report.Format); !ok {
		return fmt.Errorf("report.format must be one of %v, got %q", formatter.List(), cfg.Report.Format)
	}

	if _, err := diagnostics.CompileFilter(cfg.Report.Filter); err != nil {
		return fmt.Errorf("report.filter: %w", err)
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[cfg.Report.Color] {
		return fmt.Errorf("report.color must be 'auto', 'always' or 'never', got %q", cfg.Report.Color)
	}

	if cfg.Validation.MaxDepth < 1 {
		return fmt.Errorf("validation.max_depth must be positive, got %d", cfg.Validation.MaxDepth)
	}
	if cfg.Validation.Jobs < 1 {
		return fmt.Errorf("validation.jobs must be positive, got %d", cfg.Validation.Jobs)
	}

	validLevels := map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be one of trace, debug, info, warn, error, disabled, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" && cfg.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}

	return nil
}

// MinSeverity returns the parsed report.min_level.
func (c *Config) MinSeverity() report.Severity {
	sev, _ := report.ParseSeverity(c.Report.MinLevel)
	return sev
}

// FailSeverity returns the parsed report.fail_on; ok is false for "never".
func (c *Config) FailSeverity() (report.Severity, bool) {
	sev, err := report.ParseSeverity(c.Report.FailOn)
	return sev, err == nil
}
