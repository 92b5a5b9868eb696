package observer

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/agent"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/eventbus"
)

// ConsoleNotifier is a blocking handler for agent.stuck events that renders
// the report for a human at a terminal.
type ConsoleNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleNotifier writes to w, or stdout when w is nil.
func NewConsoleNotifier(w io.Writer) *ConsoleNotifier {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleNotifier{w: w}
}

func (c *ConsoleNotifier) Name() string   { return "console_notifier" }
func (c *ConsoleNotifier) Deferred() bool { return false }

func (c *ConsoleNotifier) Handle(event eventbus.Event) error {
	note, ok := event.Payload.(agent.StuckNotification)
	if !ok {
		return fmt.Errorf("unexpected payload %T for event %s", event.Payload, event.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "\n=== Agent needs attention (task %s) ===\n\n", note.TaskID)
	fmt.Fprintln(c.w, note.Report.DetailedSummary)
	return nil
}
