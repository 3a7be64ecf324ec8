package buffer

import "github.com/iw2rmb/richbridge/delta"

// SelectionState captures normalized selection state at a point in time.
type SelectionState struct {
	Active bool
	Range  Range
}

// Change is a versioned content mutation payload.
type Change struct {
	Source          Source
	VersionBefore   uint64
	VersionAfter    uint64
	Delta           delta.Delta
	SelectionBefore SelectionState
	SelectionAfter  SelectionState
}

type changeBuilder struct {
	source          Source
	versionBefore   uint64
	selectionBefore SelectionState
}

// LastChange returns the most recent effective content change.
func (b *Buffer) LastChange() (Change, bool) {
	if !b.hasLastChange {
		return Change{}, false
	}
	return b.lastChange, true
}

func selectionStateFromInternal(sel selectionState) SelectionState {
	if !sel.active {
		return SelectionState{}
	}
	return SelectionState{Active: true, Range: sel.rng()}
}

func (b *Buffer) beginChange(source Source) changeBuilder {
	return changeBuilder{
		source:          source,
		versionBefore:   b.version,
		selectionBefore: selectionStateFromInternal(b.sel),
	}
}

func (b *Buffer) commitChange(cb changeBuilder, d delta.Delta) {
	if b.version == cb.versionBefore {
		return
	}
	b.lastChange = Change{
		Source:          cb.source,
		VersionBefore:   cb.versionBefore,
		VersionAfter:    b.version,
		Delta:           d,
		SelectionBefore: cb.selectionBefore,
		SelectionAfter:  selectionStateFromInternal(b.sel),
	}
	b.hasLastChange = true
}
