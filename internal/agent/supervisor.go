package agent

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/eventbus"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/watchdog"
)

// Supervisor is the coordination layer between an agent loop, the event bus,
// and the stuck watchdog. The loop reports its lifecycle through the
// Supervisor; the Supervisor publishes events for observers and asks the
// watchdog whether intervention is needed.
type Supervisor struct {
	bus      *eventbus.Bus
	watchdog *watchdog.Detector
	logger   *slog.Logger

	mu     sync.Mutex
	taskID string
	goal   string
}

// NewSupervisor creates a Supervisor on the given bus and detector.
func NewSupervisor(bus *eventbus.Bus, det *watchdog.Detector, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		bus:      bus,
		watchdog: det,
		logger:   logger.With("component", "supervisor"),
	}
}

// StartTask resets the watchdog for a new task and announces it. Returns the
// task id.
func (s *Supervisor) StartTask(goal string) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.taskID = id
	s.goal = goal
	s.mu.Unlock()

	s.watchdog.Reset()
	s.logger.Info("task started", "task_id", id, "goal", goal)
	s.bus.Publish(eventbus.TopicTask,
		eventbus.NewEvent(eventbus.TopicTask, "task_started", TaskInfo{ID: id, Goal: goal}))
	return id
}

// FinishTask announces the end of the current task.
func (s *Supervisor) FinishTask(completed bool) {
	s.mu.Lock()
	id := s.taskID
	goal := s.goal
	s.mu.Unlock()

	name := "task_completed"
	if !completed {
		name = "task_abandoned"
	}
	s.bus.Publish(eventbus.TopicTask,
		eventbus.NewEvent(eventbus.TopicTask, name, TaskInfo{ID: id, Goal: goal}))
}

// StartStep marks the beginning of an agent step.
func (s *Supervisor) StartStep() {
	s.watchdog.StartStep()
	s.bus.Publish(eventbus.TopicStep,
		eventbus.NewEvent(eventbus.TopicStep, "step_started", nil))
}

// RecordAction records one attempted action with the watchdog and announces
// its outcome.
func (s *Supervisor) RecordAction(name string, success bool, errorMessage string, metadata map[string]any) {
	s.watchdog.RecordAction(name, success, errorMessage, metadata)

	eventName := "action_succeeded"
	if !success {
		eventName = "action_failed"
	}
	s.bus.Publish(eventbus.TopicAction,
		eventbus.NewEvent(eventbus.TopicAction, eventName, ActionInfo{
			Name:         name,
			Success:      success,
			ErrorMessage: errorMessage,
		}))
}

// RecordProgress marks external confirmation of forward progress.
func (s *Supervisor) RecordProgress() {
	s.watchdog.RecordProgress()
	s.bus.Publish(eventbus.TopicStep,
		eventbus.NewEvent(eventbus.TopicStep, "progress_recorded", nil))
}

// CheckIfStuck evaluates the watchdog. When the agent is judged stuck, a
// stuck_detected event carrying the report is published before returning.
func (s *Supervisor) CheckIfStuck() watchdog.Report {
	report := s.watchdog.CheckIfStuck()
	if report.IsStuck {
		s.mu.Lock()
		id := s.taskID
		s.mu.Unlock()
		s.bus.Publish(eventbus.TopicStuck,
			eventbus.NewEvent(eventbus.TopicStuck, "stuck_detected", StuckNotification{
				TaskID: id,
				Report: report,
			}))
	}
	return report
}

// ShouldRequestHelp runs a full stuck check and returns only the verdict.
func (s *Supervisor) ShouldRequestHelp() bool {
	return s.CheckIfStuck().IsStuck
}

// StepCount returns the number of steps started in the current task.
func (s *Supervisor) StepCount() int {
	return s.watchdog.StepCount()
}

// TaskID returns the id of the current task, empty before StartTask.
func (s *Supervisor) TaskID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskID
}

// EmitEvent publishes an event without waiting for deferred handlers.
func (s *Supervisor) EmitEvent(topic eventbus.Topic, event eventbus.Event) {
	s.bus.Publish(topic, event)
}

// EmitEventWait publishes an event and waits for all deferred handlers.
func (s *Supervisor) EmitEventWait(topic eventbus.Topic, event eventbus.Event) {
	s.bus.PublishWait(topic, event)
}

// Subscribe registers a handler on the underlying bus.
func (s *Supervisor) Subscribe(topic eventbus.Topic, handler eventbus.Handler) {
	s.bus.Subscribe(topic, handler)
}

// Unsubscribe removes a handler registration from the underlying bus.
func (s *Supervisor) Unsubscribe(topic eventbus.Topic, handler eventbus.Handler) {
	s.bus.Unsubscribe(topic, handler)
}
