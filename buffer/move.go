package buffer

import (
	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/internal/grapheme"
)

type MoveUnit int

const (
	MoveRune MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (or doc start for MoveDoc)
	DirEnd  // line end (or doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // if true, moves only the selection head; if false collapses it
}

// Move moves the caret as a user selection change.
func (b *Buffer) Move(m Move) {
	prev := b.sel
	head := b.Cursor()

	if !m.Extend && prev.active && prev.anchor != prev.head && m.Unit == MoveRune {
		// Horizontal moves collapse a selection to its edge first.
		r := prev.rng()
		switch m.Dir {
		case DirLeft:
			b.setSelectionState(selectionState{active: true, anchor: r.Index, head: r.Index}, SourceUser)
			return
		case DirRight:
			b.setSelectionState(selectionState{active: true, anchor: r.End(), head: r.End()}, SourceUser)
			return
		}
	}

	next := b.IndexOf(b.moveCursor(b.PosOf(head), m))
	anchor := next
	if m.Extend {
		anchor = head
		if prev.active {
			anchor = prev.anchor
		}
	}
	b.setSelectionState(selectionState{active: true, anchor: anchor, head: next}, SourceUser)
}

func (b *Buffer) moveCursor(p Pos, m Move) Pos {
	switch m.Unit {
	case MoveRune:
		return b.moveRune(p, m.Dir)
	case MoveWord:
		return b.moveWord(p, m.Dir)
	case MoveLine:
		return b.moveLine(p, m.Dir)
	case MoveDoc:
		return b.moveDoc(p, m.Dir)
	default:
		return p
	}
}

func (b *Buffer) lineLen(row int) int {
	lines := b.Lines()
	if row < 0 || row >= len(lines) {
		return 0
	}
	return lines[row].Length()
}

func (b *Buffer) moveRune(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.Col
	lastRow := len(b.Lines()) - 1

	switch dir {
	case DirLeft:
		if row == 0 && col == 0 {
			return p
		}
		if col > 0 {
			return Pos{Row: row, Col: col - 1}
		}
		return Pos{Row: row - 1, Col: b.lineLen(row - 1)}
	case DirRight:
		if row == lastRow && col == b.lineLen(lastRow) {
			return p
		}
		if col < b.lineLen(row) {
			return Pos{Row: row, Col: col + 1}
		}
		return Pos{Row: row + 1, Col: 0}
	default:
		return b.moveLine(p, dir)
	}
}

func (b *Buffer) moveWord(p Pos, dir MoveDir) Pos {
	line := lineRunes(b.Lines()[p.Row])

	switch dir {
	case DirLeft:
		return Pos{Row: p.Row, Col: grapheme.PrevWord(line, p.Col)}
	case DirRight:
		return Pos{Row: p.Row, Col: grapheme.NextWord(line, p.Col)}
	default:
		return b.moveLine(p, dir)
	}
}

func (b *Buffer) moveLine(p Pos, dir MoveDir) Pos {
	row, col := p.Row, p.Col
	lastRow := len(b.Lines()) - 1

	switch dir {
	case DirHome:
		return Pos{Row: row, Col: 0}
	case DirEnd:
		return Pos{Row: row, Col: b.lineLen(row)}
	case DirUp:
		if row == 0 {
			return p
		}
		return Pos{Row: row - 1, Col: min(col, b.lineLen(row-1))}
	case DirDown:
		if row == lastRow {
			return p
		}
		return Pos{Row: row + 1, Col: min(col, b.lineLen(row+1))}
	default:
		return p
	}
}

func (b *Buffer) moveDoc(p Pos, dir MoveDir) Pos {
	lastRow := len(b.Lines()) - 1

	switch dir {
	case DirHome, DirUp:
		return Pos{}
	case DirEnd, DirDown:
		return Pos{Row: lastRow, Col: b.lineLen(lastRow)}
	default:
		return p
	}
}

func lineRunes(l delta.Line) []rune {
	return []rune(delta.New(l.Ops...).Text())
}
