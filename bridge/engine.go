package bridge

import (
	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/task"
)

// Engine is the editor capability the element drives.
type Engine interface {
	Contents() delta.Delta
	SetContents(d delta.Delta, src buffer.Source) error
	Selection() (buffer.Range, bool)
	SetSelection(r *buffer.Range, src buffer.Source)
	On(name buffer.EventName, h buffer.Handler) (off func())
	Enable(enabled bool)
	FormatText(index, length int, name string, value any, src buffer.Source) delta.Delta
}

var _ Engine = (*buffer.Buffer)(nil)

// Scheduler runs deferred work after the current update has returned. Tasks
// must run on the goroutine that owns the element.
type Scheduler interface {
	Schedule(fn func())
}

var _ Scheduler = (*task.Queue)(nil)
