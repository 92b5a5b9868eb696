package watchdog

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is wrapped by every config validation failure.
var ErrInvalidConfig = errors.New("invalid watchdog config")

// Config tunes stuck-detection sensitivity. A Detector copies its Config at
// construction; create a new Detector to change policy.
type Config struct {
	// MaxStepDuration flags a single step running longer than this.
	MaxStepDuration time.Duration
	// ActionHistorySize bounds the rolling action history (FIFO eviction).
	ActionHistorySize int
	// SimilarityThreshold is reserved for a graded similarity score.
	// Detection currently uses the binary test in actionsSimilar; the field
	// is kept so existing configs stay valid if a weighted comparison
	// ships later.
	SimilarityThreshold float64
	// StuckActionThreshold is the run length of similar actions that
	// counts as looping.
	StuckActionThreshold int
	// MaxTimeWithoutProgress flags stagnation.
	MaxTimeWithoutProgress time.Duration
	// MinHelpRequestInterval is the cooldown between two stuck reports.
	MinHelpRequestInterval time.Duration
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{
		MaxStepDuration:        120 * time.Second,
		ActionHistorySize:      5,
		SimilarityThreshold:    0.7,
		StuckActionThreshold:   3,
		MaxTimeWithoutProgress: 300 * time.Second,
		MinHelpRequestInterval: 60 * time.Second,
	}
}

// Validate rejects configurations that would make heuristic evaluation
// undefined. Durations must be non-negative, counts at least 1.
func (c Config) Validate() error {
	if c.MaxStepDuration < 0 {
		return fmt.Errorf("%w: max step duration must not be negative, got %v", ErrInvalidConfig, c.MaxStepDuration)
	}
	if c.MaxTimeWithoutProgress < 0 {
		return fmt.Errorf("%w: max time without progress must not be negative, got %v", ErrInvalidConfig, c.MaxTimeWithoutProgress)
	}
	if c.MinHelpRequestInterval < 0 {
		return fmt.Errorf("%w: min help request interval must not be negative, got %v", ErrInvalidConfig, c.MinHelpRequestInterval)
	}
	if c.ActionHistorySize < 1 {
		return fmt.Errorf("%w: action history size must be at least 1, got %d", ErrInvalidConfig, c.ActionHistorySize)
	}
	if c.StuckActionThreshold < 1 {
		return fmt.Errorf("%w: stuck action threshold must be at least 1, got %d", ErrInvalidConfig, c.StuckActionThreshold)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("%w: similarity threshold must be within [0,1], got %v", ErrInvalidConfig, c.SimilarityThreshold)
	}
	return nil
}
