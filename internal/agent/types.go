package agent

import "github.com/Sathursan-S/Browser.AI-sub001/internal/watchdog"

// TaskInfo is the payload of task lifecycle events.
type TaskInfo struct {
	ID   string
	Goal string
}

// ActionInfo is the payload of action events.
type ActionInfo struct {
	Name         string
	Success      bool
	ErrorMessage string
}

// StuckNotification is the payload of stuck_detected events. Observers
// supplying a UI or notification layer render Report.DetailedSummary and
// Report.Suggestion.
type StuckNotification struct {
	TaskID string
	Report watchdog.Report
}
