package watchdog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestDetector(t *testing.T, cfg Config) (*Detector, *fakeClock) {
	t.Helper()
	d, err := New(cfg, nil)
	require.NoError(t, err)
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	d.now = clock.Now
	return d, clock
}

func TestConfigValidation(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	negative := DefaultConfig()
	negative.MaxStepDuration = -time.Second
	err := negative.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	zeroHistory := DefaultConfig()
	zeroHistory.ActionHistorySize = 0
	assert.ErrorIs(t, zeroHistory.Validate(), ErrInvalidConfig)

	zeroThreshold := DefaultConfig()
	zeroThreshold.StuckActionThreshold = 0
	assert.ErrorIs(t, zeroThreshold.Validate(), ErrInvalidConfig)

	badSimilarity := DefaultConfig()
	badSimilarity.SimilarityThreshold = 1.5
	assert.ErrorIs(t, badSimilarity.Validate(), ErrInvalidConfig)

	_, err = New(zeroThreshold, nil)
	assert.Error(t, err, "construction must fail fast on bad config")
}

func TestFreshDetectorIsNotStuck(t *testing.T) {
	d, _ := newTestDetector(t, DefaultConfig())

	report := d.CheckIfStuck()
	assert.False(t, report.IsStuck)
	assert.Equal(t, "agent is making progress", report.Reason)
	assert.Zero(t, report.Duration, "duration is zero before any task starts")
}

func TestStepDurationHeuristic(t *testing.T) {
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()

	clock.Advance(119 * time.Second)
	assert.False(t, d.CheckIfStuck().IsStuck)

	clock.Advance(2 * time.Second)
	report := d.CheckIfStuck()
	assert.True(t, report.IsStuck)
	assert.Contains(t, report.Reason, "single step taking too long")
	assert.Equal(t, 121*time.Second, report.Duration)
}

func TestRepetitionHeuristic(t *testing.T) {
	d, _ := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()

	for i := 0; i < 3; i++ {
		d.RecordAction("click_button", false, "element not found", nil)
	}

	report := d.CheckIfStuck()
	require.True(t, report.IsStuck)
	assert.Contains(t, report.Reason, "repeating similar actions")
	assert.Contains(t, report.Reason, "click_button")
	assert.Len(t, report.AttemptedActions, 3)
}

func TestRepetitionNotTriggeredByDifferentErrors(t *testing.T) {
	d, _ := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()

	d.RecordAction("click_button", false, "element not found", nil)
	d.RecordAction("click_button", false, "element detached", nil)
	d.RecordAction("click_button", false, "timeout waiting for selector", nil)

	// Three failures still trip the burst heuristic, but varying error
	// messages must never read as repetition.
	report := d.CheckIfStuck()
	require.True(t, report.IsStuck)
	assert.NotContains(t, report.Reason, "repeating similar actions")
	assert.Contains(t, report.Reason, "multiple consecutive failures")
}

func TestSuccessResetsRepetitionAndFailures(t *testing.T) {
	d, _ := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()

	d.RecordAction("click_button", false, "element not found", nil)
	d.RecordAction("click_button", false, "element not found", nil)
	d.RecordAction("scroll_page", true, "", nil)
	d.RecordAction("click_button", false, "element not found", nil)
	d.RecordAction("click_button", false, "element not found", nil)

	assert.False(t, d.CheckIfStuck().IsStuck)
}

func TestStagnationHeuristic(t *testing.T) {
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()

	clock.Advance(301 * time.Second)
	report := d.CheckIfStuck()
	require.True(t, report.IsStuck)
	assert.Contains(t, report.Reason, "no progress for")
}

func TestProgressResetsStagnation(t *testing.T) {
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()

	clock.Advance(301 * time.Second)
	d.RecordProgress()

	assert.False(t, d.CheckIfStuck().IsStuck, "progress just before the check resets the timer")
}

func TestFailureBurstHeuristic(t *testing.T) {
	d, _ := newTestDetector(t, DefaultConfig())
	d.Reset()

	d.RecordAction("fill_form", false, "validation error", nil)
	d.RecordAction("click_submit", false, "button disabled", nil)
	d.RecordAction("scroll_page", false, "page crashed", nil)

	report := d.CheckIfStuck()
	require.True(t, report.IsStuck)
	assert.Contains(t, report.Reason, "multiple consecutive failures")
}

func TestCooldownSuppression(t *testing.T) {
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()

	clock.Advance(121 * time.Second)
	require.True(t, d.CheckIfStuck().IsStuck)

	// The step is still too long, but the stall was just reported.
	clock.Advance(10 * time.Second)
	report := d.CheckIfStuck()
	assert.False(t, report.IsStuck)
	assert.Contains(t, report.Reason, "cooldown")

	clock.Advance(60 * time.Second)
	assert.True(t, d.CheckIfStuck().IsStuck, "cooldown elapsed, the stall is reported again")
}

func TestFIFOEviction(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ActionHistorySize = 5
	d, _ := newTestDetector(t, cfg)
	d.Reset()

	d.RecordAction("open_page", false, "net::ERR_TIMED_OUT", nil)
	for i := 0; i < 5; i++ {
		d.RecordAction("click_button", false, "element not found", nil)
	}

	report := d.CheckIfStuck()
	require.True(t, report.IsStuck)
	require.Len(t, report.AttemptedActions, 5)
	for _, action := range report.AttemptedActions {
		assert.NotContains(t, action, "open_page", "the oldest record is evicted")
	}
}

func TestShouldRequestHelp(t *testing.T) {
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()

	assert.False(t, d.ShouldRequestHelp())
	clock.Advance(121 * time.Second)
	assert.True(t, d.ShouldRequestHelp())
}

func TestResetClearsState(t *testing.T) {
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()
	for i := 0; i < 3; i++ {
		d.RecordAction("click_button", false, "element not found", nil)
	}
	clock.Advance(121 * time.Second)
	require.True(t, d.CheckIfStuck().IsStuck)

	d.Reset()
	report := d.CheckIfStuck()
	assert.False(t, report.IsStuck)
	assert.Equal(t, 0, d.StepCount())
	assert.Empty(t, report.AttemptedActions)
}

func TestDetailedSummaryStructure(t *testing.T) {
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()
	d.StartStep()
	d.RecordAction("click_button", false, "element not found", nil)
	clock.Advance(121 * time.Second)

	report := d.CheckIfStuck()
	require.True(t, report.IsStuck)

	summary := report.DetailedSummary
	assert.Contains(t, summary, "Issue: "+report.Reason)
	assert.Contains(t, summary, "across 2 steps")
	assert.Contains(t, summary, "click_button [failed]: element not found")
	assert.Contains(t, summary, report.Suggestion)
	assert.Contains(t, summary, "Provide guidance on how to proceed")
	assert.Contains(t, summary, "Stop the current task")
}

func TestHeuristicPriorityOrder(t *testing.T) {
	// Step duration outranks repetition when both hold.
	d, clock := newTestDetector(t, DefaultConfig())
	d.Reset()
	d.StartStep()
	for i := 0; i < 3; i++ {
		d.RecordAction("click_button", false, "element not found", nil)
	}
	clock.Advance(121 * time.Second)

	report := d.CheckIfStuck()
	require.True(t, report.IsStuck)
	assert.Contains(t, report.Reason, "single step taking too long")
}

func TestActionsSimilar(t *testing.T) {
	fail := func(name, msg string) ActionRecord {
		return ActionRecord{Name: name, Success: false, ErrorMessage: msg}
	}

	assert.True(t, actionsSimilar(fail("click", "x"), fail("click", "x")))
	assert.True(t, actionsSimilar(fail("click", ""), fail("click", "")))
	assert.False(t, actionsSimilar(fail("click", "x"), fail("click", "y")))
	assert.False(t, actionsSimilar(fail("click", "x"), fail("scroll", "x")))
	assert.False(t, actionsSimilar(
		ActionRecord{Name: "click", Success: true},
		fail("click", "x"),
	))
}
