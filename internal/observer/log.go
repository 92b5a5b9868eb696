package observer

import (
	"log/slog"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/eventbus"
)

// LogObserver is a blocking wildcard handler writing a structured log line
// for every event on the bus.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger.With("component", "events")}
}

func (o *LogObserver) Name() string   { return "log_observer" }
func (o *LogObserver) Deferred() bool { return false }

func (o *LogObserver) Handle(event eventbus.Event) error {
	o.logger.Info("event", "topic", event.Topic, "name", event.Name)
	return nil
}
