// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults.
//   - Load layers a YAML file and environment variables over the defaults.
//   - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/swingscore/internal/domain/anomaly"
	"github.com/okian/swingscore/internal/domain/bands"
	"github.com/okian/swingscore/pkg/logger"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory analysis queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of scoring workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// HistoryLimit caps the analyses kept per player and the default
	// page size of GET /players/{id}/history.
	HistoryLimit int `koanf:"history_limit"`

	// MaxRecords caps all stored analyses; 0 keeps everything.
	MaxRecords int `koanf:"max_records"`

	// Anomaly holds the thresholds of the anomaly detector.
	Anomaly anomaly.Thresholds `koanf:"anomaly"`

	// Profiles holds the band tables per mode. A profile given in a file
	// replaces the stock profile of that mode as a whole.
	Profiles bands.Profiles `koanf:"profiles"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    logger.FormatText,
		Addr:         ":9080",
		QueueSize:    10_000,
		WorkerCount:  runtime.NumCPU(),
		DedupeSize:   50_000,
		HistoryLimit: 50,
		Anomaly:      anomaly.DefaultThresholds(),
		Profiles:     bands.DefaultProfiles(),
	}
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	case c.MaxRecords < 0:
		return fmt.Errorf("%w: max_records must not be negative", ErrInvalidConfig)
	}

	switch strings.ToLower(c.LogFormat) {
	case logger.FormatText, logger.FormatJSON:
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: log_level %q", ErrInvalidConfig, c.LogLevel)
	}

	a := c.Anomaly
	if a.COMMinPct > a.COMMaxPct || a.HeadMaxIn < 0 || a.SpineMaxDeg < 0 || a.MinFrames < 0 {
		return fmt.Errorf("%w: anomaly thresholds out of order", ErrInvalidConfig)
	}
	if err := c.Profiles.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
