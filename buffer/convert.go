package buffer

import "github.com/iw2rmb/richbridge/delta"

// Lines returns the document split into lines. The result is cached per
// version and must not be modified.
func (b *Buffer) Lines() []delta.Line {
	if !b.linesOK || b.linesVersion != b.version {
		b.lines = b.doc.Lines()
		b.linesVersion = b.version
		b.linesOK = true
	}
	return b.lines
}

// PosOf converts a document offset into a (row, col) position.
func (b *Buffer) PosOf(index int) Pos {
	index = clampInt(index, 0, b.length)
	lines := b.Lines()
	for row := len(lines) - 1; row >= 0; row-- {
		if lines[row].Start <= index {
			return Pos{Row: row, Col: index - lines[row].Start}
		}
	}
	return Pos{}
}

// IndexOf converts p into a document offset, clamping it into the document.
func (b *Buffer) IndexOf(p Pos) int {
	lines := b.Lines()
	row := clampInt(p.Row, 0, len(lines)-1)
	line := lines[row]
	return line.Start + clampInt(p.Col, 0, line.Length())
}

// lineAt returns the row containing index.
func (b *Buffer) lineAt(index int) (int, delta.Line) {
	p := b.PosOf(index)
	return p.Row, b.Lines()[p.Row]
}
