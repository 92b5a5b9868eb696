package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/watchdog"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	a, err := NewSQLiteArchive(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestSaveAndListReports(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	report := watchdog.Report{
		IsStuck:          true,
		Reason:           "repeating similar actions: click_button",
		AttemptedActions: []string{"click_button (failed)", "click_button (failed)"},
		Duration:         95 * time.Second,
		Suggestion:       "I seem to be stuck. Could you take a look?",
	}

	if err := a.SaveReport(ctx, "task-1", report); err != nil {
		t.Fatal(err)
	}
	if err := a.SaveReport(ctx, "task-1", report); err != nil {
		t.Fatal(err)
	}

	reports, err := a.ListReports(ctx, "task-1", 10)
	if err != nil {
		t.Fatal(err)
	}

	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}
	if reports[0].Reason != report.Reason {
		t.Fatalf("expected %q, got %q", report.Reason, reports[0].Reason)
	}
	if len(reports[0].Actions) != 2 {
		t.Fatalf("expected 2 actions, got %v", reports[0].Actions)
	}
	if reports[0].DurationSeconds != 95 {
		t.Fatalf("expected 95s, got %v", reports[0].DurationSeconds)
	}
}

func TestListReportsLimit(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		a.SaveReport(ctx, "task-1", watchdog.Report{Reason: "no progress"})
	}

	reports, err := a.ListReports(ctx, "task-1", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
}

func TestIsolatedTasks(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	a.SaveReport(ctx, "task-1", watchdog.Report{Reason: "task-1 stall"})
	a.SaveReport(ctx, "task-2", watchdog.Report{Reason: "task-2 stall"})

	r1, _ := a.ListReports(ctx, "task-1", 10)
	r2, _ := a.ListReports(ctx, "task-2", 10)

	if len(r1) != 1 || r1[0].Reason != "task-1 stall" {
		t.Fatal("task-1 reports incorrect")
	}
	if len(r2) != 1 || r2[0].Reason != "task-2 stall" {
		t.Fatal("task-2 reports incorrect")
	}
}

func TestSaveTaskOutcome(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	outcome := TaskOutcome{
		TaskID:    "task-1",
		Goal:      "fill out the signup form",
		Steps:     12,
		Completed: true,
	}
	if err := a.SaveTaskOutcome(ctx, outcome); err != nil {
		t.Fatal(err)
	}

	// Upsert keeps one row per task.
	outcome.Steps = 13
	if err := a.SaveTaskOutcome(ctx, outcome); err != nil {
		t.Fatal(err)
	}

	var steps int
	if err := a.db.QueryRow(`SELECT steps FROM task_outcomes WHERE task_id = ?`, "task-1").Scan(&steps); err != nil {
		t.Fatal(err)
	}
	if steps != 13 {
		t.Fatalf("expected 13 steps, got %d", steps)
	}
}
