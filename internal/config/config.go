// Package config provides configuration management for the ingestion worker.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrNoSources          = errors.New("at least one source is required")
	ErrSourceMissingName  = errors.New("source name is required")
	ErrDuplicateSource    = errors.New("duplicate source name")
	ErrNoEnabledSources   = errors.New("at least one source must be enabled")
	ErrMissingDBPath      = errors.New("database.path is required")
	ErrInvalidTimeout     = errors.New("http.timeout_sec must be at least 1")
	ErrInvalidRetryCount  = errors.New("http.retry_count must be non-negative")
	ErrInvalidMaxPages    = errors.New("limits.max_pages must be at least 1")
	ErrInvalidScrollSteps = errors.New("browser.max_scroll_steps must be at least 1")
	ErrInvalidLogLevel    = errors.New("logging.level must be one of: debug, info, warn, error")
)

// Config represents the complete worker configuration.
type Config struct {
	Crawler CrawlerConfig `yaml:"crawler"`
	API     APIConfig     `yaml:"api"`
}

// CrawlerConfig contains ingestion-specific settings.
type CrawlerConfig struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	Browser  BrowserConfig  `yaml:"browser"`
	Limits   LimitsConfig   `yaml:"limits"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sources  []SourceConfig `yaml:"sources"`
}

// SourceConfig enables or disables one of the fixed source adapters.
// The adapter itself (selectors, base URL, date formats) is code, not config.
type SourceConfig struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
}

// DatabaseConfig locates the SQLite event store.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig tunes the static-page fetch client.
type HTTPConfig struct {
	TimeoutSec  int `yaml:"timeout_sec"`
	RetryCount  int `yaml:"retry_count"`
	RetryWaitMs int `yaml:"retry_wait_ms"`
}

// BrowserConfig tunes the rendering collaborator used by lazy-loading
// sources. MaxScrollSteps bounds the scroll-until-footer loop.
type BrowserConfig struct {
	TimeoutSec     int  `yaml:"timeout_sec"`
	ScrollStepPx   int  `yaml:"scroll_step_px"`
	ScrollPauseMs  int  `yaml:"scroll_pause_ms"`
	MaxScrollSteps int  `yaml:"max_scroll_steps"`
	Headless       bool `yaml:"headless"`
}

// LimitsConfig bounds loops that otherwise depend on external page signals.
type LimitsConfig struct {
	MaxPages int `yaml:"max_pages"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// APIConfig configures the read-only query server.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Load reads and validates configuration from a YAML file.
func Load(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Crawler.HTTP.TimeoutSec == 0 {
		c.Crawler.HTTP.TimeoutSec = 30
	}

	if c.Crawler.HTTP.RetryWaitMs == 0 {
		c.Crawler.HTTP.RetryWaitMs = 2000
	}

	if c.Crawler.Browser.TimeoutSec == 0 {
		c.Crawler.Browser.TimeoutSec = 90
	}

	if c.Crawler.Browser.ScrollStepPx == 0 {
		c.Crawler.Browser.ScrollStepPx = 400
	}

	if c.Crawler.Browser.ScrollPauseMs == 0 {
		c.Crawler.Browser.ScrollPauseMs = 800
	}

	if c.Crawler.Browser.MaxScrollSteps == 0 {
		c.Crawler.Browser.MaxScrollSteps = 120
	}

	if c.Crawler.Limits.MaxPages == 0 {
		c.Crawler.Limits.MaxPages = 50
	}

	if c.Crawler.Logging.Level == "" {
		c.Crawler.Logging.Level = "info"
	}

	if c.API.ListenAddr == "" {
		c.API.ListenAddr = ":8080"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if len(c.Crawler.Sources) == 0 {
		return ErrNoSources
	}

	seen := make(map[string]bool, len(c.Crawler.Sources))
	enabledCount := 0

	for i, src := range c.Crawler.Sources {
		if src.Name == "" {
			return fmt.Errorf("%w: source[%d]", ErrSourceMissingName, i)
		}

		if seen[src.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateSource, src.Name)
		}

		seen[src.Name] = true

		if src.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return ErrNoEnabledSources
	}

	if c.Crawler.Database.Path == "" {
		return ErrMissingDBPath
	}

	if c.Crawler.HTTP.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Crawler.HTTP.RetryCount < 0 {
		return ErrInvalidRetryCount
	}

	if c.Crawler.Limits.MaxPages < 1 {
		return ErrInvalidMaxPages
	}

	if c.Crawler.Browser.MaxScrollSteps < 1 {
		return ErrInvalidScrollSteps
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Crawler.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// EnabledSources returns the names of all enabled sources.
func (c *Config) EnabledSources() []string {
	var enabled []string

	for _, src := range c.Crawler.Sources {
		if src.Enabled {
			enabled = append(enabled, src.Name)
		}
	}

	return enabled
}

// SourceEnabled reports whether the named source is enabled.
func (c *Config) SourceEnabled(name string) bool {
	for _, src := range c.Crawler.Sources {
		if src.Name == name {
			return src.Enabled
		}
	}

	return false
}

// HTTPTimeout returns the fetch client timeout.
func (h *HTTPConfig) HTTPTimeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// RetryWait returns the delay between fetch retries.
func (h *HTTPConfig) RetryWait() time.Duration {
	return time.Duration(h.RetryWaitMs) * time.Millisecond
}

// Timeout returns the whole-page render budget.
func (b *BrowserConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// ScrollPause returns the pause between scroll steps.
func (b *BrowserConfig) ScrollPause() time.Duration {
	return time.Duration(b.ScrollPauseMs) * time.Millisecond
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Sources: %d enabled, DB: %s, MaxPages: %d}",
		len(c.EnabledSources()),
		c.Crawler.Database.Path,
		c.Crawler.Limits.MaxPages,
	)
}
