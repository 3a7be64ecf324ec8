package editor

import "github.com/iw2rmb/richbridge/format"

// Coordinates are in terminal cells relative to the editor's top-left corner,
// toolbar included.

// toolbarRow reports whether y is the toolbar row. ok is false for themes
// without a toolbar.
func (m Model) toolbarRow(y int) (isToolbar bool, ok bool) {
	switch m.theme {
	case ThemeSnow:
		return y == 0, true
	case ThemeBubble:
		r, sel := m.buf.Selection()
		if !sel || r.IsEmpty() {
			return false, true
		}
		return y == m.contentTop()+m.visibleRows(), true
	default:
		return false, false
	}
}

// visibleRows is the number of text rows shown.
func (m Model) visibleRows() int {
	if m.height == 0 {
		return len(m.lines)
	}
	return m.viewport.Height
}

// lineAtScreen maps a screen row to a line layout.
func (m Model) lineAtScreen(y int) (lineLayout, bool) {
	if len(m.lines) == 0 {
		return lineLayout{}, false
	}
	y -= m.contentTop()
	if y < 0 {
		return m.lines[0], true
	}
	if m.height > 0 {
		y = min(y, m.viewport.Height-1)
		y += m.viewport.YOffset
	}
	return m.lines[clampInt(y, 0, len(m.lines)-1)], true
}

// screenToIndex maps a screen position to a caret offset, clamped into the
// document.
func (m Model) screenToIndex(x, y int) int {
	line, ok := m.lineAtScreen(y)
	if !ok {
		return 0
	}
	return line.indexAtCell(x)
}

// nodeAt returns the interactive node under the screen cell (x, y).
func (m Model) nodeAt(x, y int) (format.Node, bool) {
	if y < m.contentTop() {
		return format.Node{}, false
	}
	if m.height > 0 && y-m.contentTop() >= m.viewport.Height {
		return format.Node{}, false
	}
	line, ok := m.lineAtScreen(y)
	if !ok {
		return format.Node{}, false
	}
	c, ok := line.cellAt(x)
	if !ok {
		return format.Node{}, false
	}
	for _, n := range m.nodes {
		if c.index >= n.Span.Index && c.index < n.Span.End() {
			return n, true
		}
	}
	return format.Node{}, false
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
