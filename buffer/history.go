package buffer

import "github.com/iw2rmb/richbridge/delta"

type bufferSnapshot struct {
	doc delta.Delta
	sel selectionState
}

type historyState struct {
	undo []bufferSnapshot
	redo []bufferSnapshot
}

func (b *Buffer) snapshot() bufferSnapshot {
	return bufferSnapshot{doc: b.doc, sel: b.sel}
}

func (b *Buffer) recordUndo(prev bufferSnapshot) {
	limit := b.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	b.hist.undo = append(b.hist.undo, prev)
	if len(b.hist.undo) > limit {
		b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
	}
	b.hist.redo = nil
}

func (b *Buffer) CanUndo() bool { return len(b.hist.undo) > 0 }

func (b *Buffer) CanRedo() bool { return len(b.hist.redo) > 0 }

// ClearHistory drops all undo and redo steps.
func (b *Buffer) ClearHistory() {
	b.hist = historyState{}
}

// Undo restores the previous user edit. It is a user mutation and is ignored
// while the buffer is disabled.
func (b *Buffer) Undo() bool {
	if len(b.hist.undo) == 0 || !b.enabled {
		return false
	}

	cur := b.snapshot()
	i := len(b.hist.undo) - 1
	prev := b.hist.undo[i]
	if !b.restore(prev) {
		return false
	}
	b.hist.undo = b.hist.undo[:i]
	b.hist.redo = append(b.hist.redo, cur)
	return true
}

func (b *Buffer) Redo() bool {
	if len(b.hist.redo) == 0 || !b.enabled {
		return false
	}

	cur := b.snapshot()
	i := len(b.hist.redo) - 1
	next := b.hist.redo[i]
	if !b.restore(next) {
		return false
	}
	b.hist.redo = b.hist.redo[:i]

	if limit := b.opt.HistoryLimit; limit > 0 {
		b.hist.undo = append(b.hist.undo, cur)
		if len(b.hist.undo) > limit {
			b.hist.undo = b.hist.undo[len(b.hist.undo)-limit:]
		}
	}
	return true
}

func (b *Buffer) restore(s bufferSnapshot) bool {
	change, err := b.doc.Diff(s.doc)
	if err != nil {
		return false
	}
	sel := s.sel
	b.apply(change, SourceUser, &sel, false)
	return true
}
