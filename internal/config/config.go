package config

import (
	"time"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/eventbus"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/watchdog"
)

// Config is the top-level application configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	Bus      BusConfig      `yaml:"bus"`
	Archive  ArchiveConfig  `yaml:"archive"`
}

// WatchdogConfig holds stuck-detection thresholds.
type WatchdogConfig struct {
	MaxStepDurationSecs        int     `yaml:"max_step_duration_secs"`
	ActionHistorySize          int     `yaml:"action_history_size"`
	SimilarityThreshold        float64 `yaml:"similarity_threshold"`
	StuckActionThreshold       int     `yaml:"stuck_action_threshold"`
	MaxTimeWithoutProgressSecs int     `yaml:"max_time_without_progress_secs"`
	MinHelpRequestIntervalSecs int     `yaml:"min_help_request_interval_secs"`
}

// Detection converts the file representation to watchdog thresholds. The
// result still goes through watchdog.Config.Validate at detector
// construction.
func (c WatchdogConfig) Detection() watchdog.Config {
	return watchdog.Config{
		MaxStepDuration:        time.Duration(c.MaxStepDurationSecs) * time.Second,
		ActionHistorySize:      c.ActionHistorySize,
		SimilarityThreshold:    c.SimilarityThreshold,
		StuckActionThreshold:   c.StuckActionThreshold,
		MaxTimeWithoutProgress: time.Duration(c.MaxTimeWithoutProgressSecs) * time.Second,
		MinHelpRequestInterval: time.Duration(c.MinHelpRequestIntervalSecs) * time.Second,
	}
}

// BusConfig holds event bus tuning.
type BusConfig struct {
	HandlerTimeoutSecs int `yaml:"handler_timeout_secs"`
	DebounceWindowMS   int `yaml:"debounce_window_ms"`
}

// Options converts the file representation to bus options.
func (c BusConfig) Options() eventbus.Options {
	return eventbus.Options{
		HandlerTimeout: time.Duration(c.HandlerTimeoutSecs) * time.Second,
		DebounceWindow: time.Duration(c.DebounceWindowMS) * time.Millisecond,
	}
}

// ArchiveConfig holds intervention archive settings.
type ArchiveConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}
