package buffer

import "github.com/iw2rmb/richbridge/delta"

// DefaultBlockFormats lists the formats applied to whole lines when
// Options.BlockFormats is nil.
var DefaultBlockFormats = []string{"list"}

type Options struct {
	HistoryLimit int // default: 1000

	// Formats restricts the attributes the document may carry. Empty allows
	// all.
	Formats []string
	// BlockFormats names formats stored on line-terminating newlines.
	BlockFormats []string
}

type selectionState struct {
	active bool
	anchor int
	head   int
}

func (s selectionState) rng() Range {
	if s.head < s.anchor {
		return Range{Index: s.head, Length: s.anchor - s.head}
	}
	return Range{Index: s.anchor, Length: s.head - s.anchor}
}

func (s selectionState) equal(o selectionState) bool {
	if s.active != o.active {
		return false
	}
	return !s.active || s.rng() == o.rng()
}

// Buffer is the editor engine state: document, selection, history and
// change handlers. It is not safe for concurrent use.
type Buffer struct {
	doc     delta.Delta
	length  int
	version uint64

	sel     selectionState
	enabled bool

	opt     Options
	allowed map[string]bool
	block   map[string]bool

	hist historyState

	handlers      []handlerEntry
	nextHandlerID uint64

	lastChange    Change
	hasLastChange bool

	lines        []delta.Line
	linesVersion uint64
	linesOK      bool
}

// New returns an enabled buffer holding contents. Non-insert ops in contents
// are dropped.
func New(contents delta.Delta, opt Options) *Buffer {
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	if opt.BlockFormats == nil {
		opt.BlockFormats = DefaultBlockFormats
	}
	b := &Buffer{
		enabled: true,
		opt:     opt,
		block:   toSet(opt.BlockFormats),
	}
	if len(opt.Formats) > 0 {
		b.allowed = toSet(opt.Formats)
	}
	b.doc = b.filter(documentOnly(contents))
	b.length = b.doc.Length()
	return b
}

func toSet(names []string) map[string]bool {
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = true
	}
	return out
}

func documentOnly(d delta.Delta) delta.Delta {
	if d.IsDocument() {
		return d
	}
	ops := d.Ops()
	kept := ops[:0]
	for _, op := range ops {
		if op.Kind() == delta.KindInsert {
			kept = append(kept, op)
		}
	}
	return delta.New(kept...)
}

// Contents returns the current document.
func (b *Buffer) Contents() delta.Delta { return b.doc }

func (b *Buffer) Text() string { return b.doc.Text() }

func (b *Buffer) Length() int { return b.length }

func (b *Buffer) Version() uint64 { return b.version }

func (b *Buffer) Enabled() bool { return b.enabled }

// Enable toggles whether user-sourced content mutations are accepted.
func (b *Buffer) Enable(enabled bool) { b.enabled = enabled }

// Allows reports whether the document may carry the named format.
func (b *Buffer) Allows(name string) bool {
	return b.allowed == nil || b.allowed[name]
}

// IsBlock reports whether name is a line-level format.
func (b *Buffer) IsBlock(name string) bool { return b.block[name] }

// Selection returns the current selection; ok is false when the editor has no
// focus.
func (b *Buffer) Selection() (r Range, ok bool) {
	if !b.sel.active {
		return Range{}, false
	}
	return b.sel.rng(), true
}

// Cursor returns the caret offset (the moving end of the selection). It is
// kept while the selection is inactive.
func (b *Buffer) Cursor() int { return clampInt(b.sel.head, 0, b.length) }

// SetSelection replaces the selection; nil removes focus. The range is
// clamped to the document. No event fires when nothing changes.
func (b *Buffer) SetSelection(r *Range, src Source) {
	next := selectionState{anchor: b.sel.anchor, head: b.sel.head}
	if r != nil {
		index := clampInt(r.Index, 0, b.length)
		end := clampInt(r.Index+r.Length, index, b.length)
		next = selectionState{active: true, anchor: index, head: end}
	}
	b.setSelectionState(next, src)
}

func (b *Buffer) setSelectionState(next selectionState, src Source) {
	next = b.clampSel(next)
	prev := b.sel
	b.sel = next
	if prev.equal(next) {
		return
	}
	b.version++
	b.emit(Event{
		Name:     EventSelectionChange,
		Range:    rangePtr(next),
		OldRange: rangePtr(prev),
		Source:   src,
	})
}

func (b *Buffer) clampSel(s selectionState) selectionState {
	s.anchor = clampInt(s.anchor, 0, b.length)
	s.head = clampInt(s.head, 0, b.length)
	return s
}

func (b *Buffer) clampRange(index, length int) (int, int) {
	index = clampInt(index, 0, b.length)
	end := clampInt(index+length, index, b.length)
	return index, end - index
}

// filter strips attributes outside the allowlist.
func (b *Buffer) filter(change delta.Delta) delta.Delta {
	if b.allowed == nil {
		return change
	}
	ops := change.Ops()
	dirty := false
	for i, op := range ops {
		for name := range op.Attributes {
			if !b.allowed[name] {
				delete(ops[i].Attributes, name)
				dirty = true
			}
		}
	}
	if !dirty {
		return change
	}
	return delta.New(ops...)
}
