package buffer

import (
	"github.com/iw2rmb/richbridge/delta"
)

// SetContents replaces the whole document. The emitted change deletes the old
// document and inserts d. History is cleared.
func (b *Buffer) SetContents(d delta.Delta, src Source) error {
	if !d.IsDocument() {
		return delta.ErrNotDocument
	}
	change := delta.Delta{}.Delete(b.length).Concat(d)
	if b.apply(change, src, nil, false).IsEmpty() {
		return nil
	}
	b.ClearHistory()
	return nil
}

// UpdateContents applies change and returns the effective change, which is
// empty when nothing happened.
func (b *Buffer) UpdateContents(change delta.Delta, src Source) delta.Delta {
	return b.apply(change, src, nil, src == SourceUser)
}

// apply composes change into the document. When sel is nil the selection is
// transformed through the change.
func (b *Buffer) apply(change delta.Delta, src Source, sel *selectionState, record bool) delta.Delta {
	if src == SourceUser && !b.enabled {
		return delta.Delta{}
	}
	change = b.filter(change)
	if change.IsEmpty() {
		if sel != nil {
			b.setSelectionState(*sel, src)
		}
		return delta.Delta{}
	}

	prevDoc := b.doc
	next := prevDoc.Compose(change)
	if !next.IsDocument() {
		// The change reached past the end of the document.
		return delta.Delta{}
	}
	if next.Equal(prevDoc) {
		if sel != nil {
			b.setSelectionState(*sel, src)
		}
		return delta.Delta{}
	}

	if record {
		b.recordUndo(b.snapshot())
	}
	cb := b.beginChange(src)

	b.doc = next
	b.length = next.Length()
	b.version++

	prevSel := b.sel
	nextSel := transformSelection(prevSel, change)
	if sel != nil {
		nextSel = *sel
	}
	b.sel = b.clampSel(nextSel)

	b.commitChange(cb, change)
	b.emit(Event{
		Name:        EventTextChange,
		Delta:       change,
		OldContents: prevDoc,
		Source:      src,
	})
	if !prevSel.equal(b.sel) {
		b.version++
		b.emit(Event{
			Name:     EventSelectionChange,
			Range:    rangePtr(b.sel),
			OldRange: rangePtr(prevSel),
			Source:   src,
		})
	}
	return change
}

func transformSelection(s selectionState, change delta.Delta) selectionState {
	ops := change.Ops()
	s.anchor = transformIndex(ops, s.anchor)
	s.head = transformIndex(ops, s.head)
	return s
}

// transformIndex maps index through ops. Inserts at the index push it right.
func transformIndex(ops []delta.Op, index int) int {
	offset := 0
	for _, op := range ops {
		if offset > index {
			break
		}
		length := op.Len()
		switch op.Kind() {
		case delta.KindDelete:
			index -= min(length, index-offset)
			continue
		case delta.KindInsert:
			index += length
		}
		offset += length
	}
	return index
}
