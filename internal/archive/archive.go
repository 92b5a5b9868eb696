package archive

import (
	"context"
	"time"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/watchdog"
)

// Archive is the interface for persistent intervention records. It stores
// detector output and task outcomes, not the event stream.
type Archive interface {
	SaveReport(ctx context.Context, taskID string, report watchdog.Report) error
	ListReports(ctx context.Context, taskID string, limit int) ([]StoredReport, error)
	SaveTaskOutcome(ctx context.Context, outcome TaskOutcome) error
	Close() error
}

// StoredReport is a stuck report as read back from the archive.
type StoredReport struct {
	ID              int64
	TaskID          string
	Reason          string
	Actions         []string
	DurationSeconds float64
	Suggestion      string
	CreatedAt       time.Time
}

// TaskOutcome summarizes a finished task.
type TaskOutcome struct {
	TaskID    string
	Goal      string
	Steps     int
	Completed bool
}
