package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/agent"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/archive"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/config"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/eventbus"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/observer"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/watchdog"
)

// runDemo runs a scripted browser-agent session end to end: the agent keeps
// failing to click the login button, the watchdog flags the loop, the stuck
// report is rendered and archived, then simulated operator guidance lets the
// task finish.
func runDemo(out io.Writer) error {
	cfg := config.Defaults()
	logger := buildLogger("warn")

	busOpts := cfg.Bus.Options()
	busOpts.Logger = logger
	bus := eventbus.NewWithOptions(busOpts)
	defer bus.Close()

	dbPath := filepath.Join(os.TempDir(), "browserai-demo.db")
	defer os.Remove(dbPath)
	store, err := archive.NewSQLiteArchive(dbPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer store.Close()

	reg := observer.NewRegistrar(bus)
	reg.Register(eventbus.TopicWildcard, observer.NewLogObserver(logger))
	reg.Register(eventbus.TopicStuck, observer.NewConsoleNotifier(out))
	reg.Register(eventbus.TopicStuck, observer.NewArchiveWriter(store))
	defer reg.Detach()

	det, err := watchdog.New(cfg.Watchdog.Detection(), logger)
	if err != nil {
		return fmt.Errorf("create watchdog: %w", err)
	}
	sup := agent.NewSupervisor(bus, det, logger)

	fmt.Fprintln(out, "=== Demo: simulated agent session ===")
	taskID := sup.StartTask("sign in to the dashboard")
	fmt.Fprintf(out, "task %s: sign in to the dashboard\n\n", taskID)

	sup.StartStep()
	sup.RecordAction("open_page", true, "", nil)
	fmt.Fprintln(out, "step 1: open_page ... ok")

	sup.StartStep()
	for i := 1; i <= 3; i++ {
		sup.RecordAction("click_login", false, "button not clickable", nil)
		fmt.Fprintf(out, "step 2: click_login (attempt %d) ... failed\n", i)
		if sup.CheckIfStuck().IsStuck {
			break
		}
	}

	// An operator saw the report and intervened.
	fmt.Fprintln(out, "operator: dismissed the cookie banner, try again")
	sup.RecordProgress()

	sup.StartStep()
	sup.RecordAction("click_login", true, "", nil)
	fmt.Fprintln(out, "step 3: click_login ... ok")
	sup.FinishTask(true)

	outcome := archive.TaskOutcome{
		TaskID:    taskID,
		Goal:      "sign in to the dashboard",
		Steps:     sup.StepCount(),
		Completed: true,
	}
	if err := store.SaveTaskOutcome(context.Background(), outcome); err != nil {
		return fmt.Errorf("save outcome: %w", err)
	}

	// Drain deferred handlers before reading the archive back.
	bus.Close()

	reports, err := store.ListReports(context.Background(), taskID, 10)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}
	fmt.Fprintf(out, "\narchived stuck reports for this task: %d\n", len(reports))
	return nil
}
