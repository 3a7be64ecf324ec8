package buffer

import "github.com/iw2rmb/richbridge/delta"

type EventName string

const (
	EventTextChange      EventName = "text-change"
	EventSelectionChange EventName = "selection-change"
	// EventEditorChange fires for both text and selection changes.
	EventEditorChange EventName = "editor-change"
)

// Event is delivered synchronously, inline with the mutation that caused it.
type Event struct {
	// Name is EventTextChange or EventSelectionChange, also for
	// EventEditorChange subscribers.
	Name EventName

	// Delta and OldContents are set for text changes.
	Delta       delta.Delta
	OldContents delta.Delta

	// Range and OldRange are set for selection changes; nil means no focus.
	Range    *Range
	OldRange *Range

	Source Source
}

type Handler func(Event)

type handlerEntry struct {
	id   uint64
	name EventName
	fn   Handler
}

// On registers h for events named name and returns a function that removes it.
func (b *Buffer) On(name EventName, h Handler) (off func()) {
	if h == nil {
		return func() {}
	}
	b.nextHandlerID++
	id := b.nextHandlerID
	b.handlers = append(b.handlers, handlerEntry{id: id, name: name, fn: h})
	return func() {
		for i, e := range b.handlers {
			if e.id == id {
				b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

func (b *Buffer) emit(ev Event) {
	if len(b.handlers) == 0 {
		return
	}
	// Handlers may register or remove handlers while running.
	hs := append([]handlerEntry(nil), b.handlers...)
	for _, e := range hs {
		if e.name == EventEditorChange {
			e.fn(ev)
		}
	}
	for _, e := range hs {
		if e.name == ev.Name {
			e.fn(ev)
		}
	}
}

func rangePtr(sel selectionState) *Range {
	if !sel.active {
		return nil
	}
	r := sel.rng()
	return &r
}
