package watchdog

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// failureBurstThreshold is the number of consecutive failures, similar or
// not, that counts as a burst.
const failureBurstThreshold = 3

// Detector watches one agent loop for signs that it stopped making forward
// progress: a step running too long, the same action repeated, no progress
// for an extended period, or a burst of failures. It is pull-based; nothing
// is evaluated until CheckIfStuck is called.
//
// Safe for concurrent use: every entry point takes the internal mutex.
type Detector struct {
	mu  sync.Mutex
	cfg Config

	history *ring[ActionRecord]

	taskStart        time.Time
	lastProgress     time.Time
	lastHelpRequest  time.Time
	currentStepStart time.Time

	consecutiveSimilar int
	stepCount          int
	failureCount       int

	logger *slog.Logger
	now    func() time.Time
}

// New validates cfg and creates a Detector. The detector holds no task
// until Reset (or the first StartStep) begins one.
func New(cfg Config, logger *slog.Logger) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		cfg:     cfg,
		history: newRing[ActionRecord](cfg.ActionHistorySize),
		logger:  logger.With("component", "watchdog"),
		now:     time.Now,
	}, nil
}

// Reset clears all state and starts a new task.
func (d *Detector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	d.history.clear()
	d.taskStart = now
	d.lastProgress = now
	d.lastHelpRequest = time.Time{}
	d.currentStepStart = time.Time{}
	d.consecutiveSimilar = 0
	d.stepCount = 0
	d.failureCount = 0
}

// StartStep marks the beginning of an agent step. The first step of an
// un-reset detector also starts the task clock.
func (d *Detector) StartStep() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if d.taskStart.IsZero() {
		d.taskStart = now
		d.lastProgress = now
	}
	d.currentStepStart = now
	d.stepCount++
}

// RecordAction records one attempted action. A success advances the
// progress clock and clears the repetition and failure counters; a failure
// extends or restarts the run of similar actions.
func (d *Detector) RecordAction(name string, success bool, errorMessage string, metadata map[string]any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec := ActionRecord{
		Name:         name,
		Timestamp:    d.now(),
		Success:      success,
		ErrorMessage: errorMessage,
		Metadata:     metadata,
	}
	prev, hasPrev := d.latest()
	d.history.push(rec)

	if success {
		d.lastProgress = rec.Timestamp
		d.consecutiveSimilar = 0
		d.failureCount = 0
		return
	}

	d.failureCount++
	if hasPrev && actionsSimilar(prev, rec) {
		// The counter tracks the run length, so a lone action counts as 1.
		if d.consecutiveSimilar == 0 {
			d.consecutiveSimilar = 1
		}
		d.consecutiveSimilar++
	} else {
		d.consecutiveSimilar = 1
	}
}

// RecordProgress marks external confirmation that the task moved forward,
// typically after an intervention resolved a stall.
func (d *Detector) RecordProgress() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.lastProgress = d.now()
	d.consecutiveSimilar = 0
	d.failureCount = 0
}

// CheckIfStuck evaluates the heuristics in priority order and returns a
// report. A cooldown after a reported stall short-circuits evaluation so
// repeated polling does not raise the same alarm twice.
func (d *Detector) CheckIfStuck() Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()

	if !d.lastHelpRequest.IsZero() && now.Sub(d.lastHelpRequest) < d.cfg.MinHelpRequestInterval {
		return d.notStuck(now, "waiting before requesting help again (cooldown)")
	}
	if !d.currentStepStart.IsZero() {
		if elapsed := now.Sub(d.currentStepStart); elapsed > d.cfg.MaxStepDuration {
			return d.stuck(now, fmt.Sprintf("single step taking too long (%.0fs)", elapsed.Seconds()))
		}
	}
	if d.consecutiveSimilar >= d.cfg.StuckActionThreshold {
		return d.stuck(now, "repeating similar actions: "+strings.Join(d.recentNames(3), ", "))
	}
	if !d.lastProgress.IsZero() {
		if elapsed := now.Sub(d.lastProgress); elapsed > d.cfg.MaxTimeWithoutProgress {
			return d.stuck(now, fmt.Sprintf("no progress for %.0f seconds", elapsed.Seconds()))
		}
	}
	if d.failureCount >= failureBurstThreshold {
		return d.stuck(now, "multiple consecutive failures")
	}
	return d.notStuck(now, "agent is making progress")
}

// ShouldRequestHelp runs a full stuck check and returns only the verdict.
func (d *Detector) ShouldRequestHelp() bool {
	return d.CheckIfStuck().IsStuck
}

// StepCount returns the number of steps started since the last reset.
func (d *Detector) StepCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stepCount
}

func (d *Detector) latest() (ActionRecord, bool) {
	items := d.history.last(1)
	if len(items) == 0 {
		return ActionRecord{}, false
	}
	return items[0], true
}

func (d *Detector) recentNames(n int) []string {
	recs := d.history.last(n)
	names := make([]string, len(recs))
	for i, rec := range recs {
		names[i] = rec.Name
	}
	return names
}

func (d *Detector) taskDuration(now time.Time) time.Duration {
	if d.taskStart.IsZero() {
		return 0
	}
	return now.Sub(d.taskStart)
}

func (d *Detector) notStuck(now time.Time, reason string) Report {
	return Report{
		Reason:   reason,
		Duration: d.taskDuration(now),
	}
}

// stuck arms the cooldown and builds the full report.
func (d *Detector) stuck(now time.Time, reason string) Report {
	d.lastHelpRequest = now

	records := d.history.all()
	actions := make([]string, len(records))
	for i, rec := range records {
		actions[i] = rec.Summary()
	}

	r := Report{
		IsStuck:          true,
		Reason:           reason,
		AttemptedActions: actions,
		Duration:         d.taskDuration(now),
		Suggestion: fmt.Sprintf(
			"I seem to be stuck: %s. Could you take a look and tell me how to proceed?", reason),
	}
	r.DetailedSummary = d.detailedSummary(r)

	d.logger.Warn("agent appears stuck",
		"reason", reason, "steps", d.stepCount, "failures", d.failureCount)
	return r
}

func (d *Detector) detailedSummary(r Report) string {
	var b strings.Builder
	b.WriteString("The agent needs help to continue.\n\n")
	fmt.Fprintf(&b, "Issue: %s\n", r.Reason)
	fmt.Fprintf(&b, "Time on task: %.0fs across %d steps\n\n", r.Duration.Seconds(), d.stepCount)

	b.WriteString("Recent actions:\n")
	for _, rec := range d.history.last(5) {
		status := "ok"
		if !rec.Success {
			status = "failed"
		}
		fmt.Fprintf(&b, "  - %s [%s]", rec.Name, status)
		if rec.ErrorMessage != "" {
			fmt.Fprintf(&b, ": %s", rec.ErrorMessage)
		}
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(r.Suggestion)
	b.WriteString("\n\nOptions:\n")
	for _, opt := range interventionOptions {
		b.WriteString("  " + opt + "\n")
	}
	return b.String()
}
