package format

import tea "github.com/charmbracelet/bubbletea"

// Event is handed to Node.OnActivate. The editor that owns the node binds the
// dispatcher; messages dispatched through it bubble to the host's Update.
type Event struct {
	dispatch func(tea.Msg)
	stopped  bool
}

// NewEvent returns an event whose Dispatch forwards to dispatch. A nil
// dispatch makes Dispatch a no-op.
func NewEvent(dispatch func(tea.Msg)) *Event {
	return &Event{dispatch: dispatch}
}

// StopPropagation prevents the editor's default handling of the interaction
// (for a click: moving the cursor).
func (e *Event) StopPropagation() { e.stopped = true }

func (e *Event) Stopped() bool { return e.stopped }

// Dispatch sends msg to the bound dispatcher and reports whether one was
// bound.
func (e *Event) Dispatch(msg tea.Msg) bool {
	if e == nil || e.dispatch == nil {
		return false
	}
	e.dispatch(msg)
	return true
}
