package watchdog

import "time"

// Report is the outcome of one stuck evaluation. It is a value; the
// detector keeps no reference to it.
type Report struct {
	IsStuck          bool
	Reason           string
	AttemptedActions []string
	Duration         time.Duration
	Suggestion       string
	DetailedSummary  string
}

// interventionOptions is the fixed menu offered to whoever handles a stuck
// report.
var interventionOptions = []string{
	"1. Provide guidance on how to proceed",
	"2. Skip the current step and continue",
	"3. Ask for a summary of progress so far",
	"4. Stop the current task",
}
