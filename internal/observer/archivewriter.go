package observer

import (
	"context"
	"fmt"
	"time"

	"github.com/Sathursan-S/Browser.AI-sub001/internal/agent"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/archive"
	"github.com/Sathursan-S/Browser.AI-sub001/internal/eventbus"
)

// saveTimeout bounds one archive write; the writer runs deferred and must
// not hold a PublishWait caller hostage to a slow disk.
const saveTimeout = 5 * time.Second

// ArchiveWriter is a deferred handler for agent.stuck events that persists
// each report to the intervention archive.
type ArchiveWriter struct {
	store archive.Archive
}

// NewArchiveWriter creates an ArchiveWriter backed by store.
func NewArchiveWriter(store archive.Archive) *ArchiveWriter {
	return &ArchiveWriter{store: store}
}

func (w *ArchiveWriter) Name() string   { return "archive_writer" }
func (w *ArchiveWriter) Deferred() bool { return true }

func (w *ArchiveWriter) Handle(event eventbus.Event) error {
	note, ok := event.Payload.(agent.StuckNotification)
	if !ok {
		return fmt.Errorf("unexpected payload %T for event %s", event.Payload, event.Name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := w.store.SaveReport(ctx, note.TaskID, note.Report); err != nil {
		return fmt.Errorf("save stuck report: %w", err)
	}
	return nil
}
