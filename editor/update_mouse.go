package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/richbridge/buffer"
)

func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	if isWheelMouse(msg) {
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if !m.focused || m.buf == nil {
		return m, nil
	}

	// Only handle selection/cursor changes for left button interactions.
	switch msg.Action { //nolint:exhaustive
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !m.mouseInBounds(msg.X, msg.Y) {
			return m, nil
		}

		if row, ok := m.toolbarRow(msg.Y); ok && row {
			if item, ok := m.toolbarItemAt(msg.X); ok {
				m.toggle(item.Format, toolbarValue(item))
			}
			return m, nil
		}

		if n, ok := m.nodeAt(msg.X, msg.Y); ok {
			stopped, cmd := m.activate(n)
			if stopped {
				return m, cmd
			}
			m, _ = m.placeCursor(msg)
			return m, cmd
		}
		return m.placeCursor(msg)

	case tea.MouseActionMotion:
		if !m.mouseDragging {
			return m, nil
		}
		x, y := m.clampMouseToBounds(msg.X, msg.Y)
		p := m.screenToIndex(x, y)
		m.buf.SetSelection(rangeBetween(m.mouseAnchor, p), buffer.SourceUser)

	case tea.MouseActionRelease:
		m.mouseDragging = false
	}

	return m, nil
}

func (m Model) placeCursor(msg tea.MouseMsg) (Model, tea.Cmd) {
	p := m.screenToIndex(msg.X, msg.Y)
	m.nodeFocus = -1
	if msg.Shift {
		anchor := m.buf.Cursor()
		if r, ok := m.buf.Selection(); ok {
			anchor = r.Index
			if p < anchor {
				anchor = r.End()
			}
		}
		m.mouseAnchor = anchor
		m.buf.SetSelection(rangeBetween(anchor, p), buffer.SourceUser)
	} else {
		m.mouseAnchor = p
		m.buf.SetSelection(&buffer.Range{Index: p}, buffer.SourceUser)
	}
	m.mouseDragging = true
	m.rebuildContent()
	return m, nil
}

func toolbarValue(item ToolbarItem) any {
	if item.Value == nil {
		return true
	}
	return item.Value
}

func rangeBetween(a, b int) *buffer.Range {
	if b < a {
		a, b = b, a
	}
	return &buffer.Range{Index: a, Length: b - a}
}

func isWheelMouse(msg tea.MouseMsg) bool {
	return msg.Action == tea.MouseActionPress &&
		(msg.Button == tea.MouseButtonWheelUp ||
			msg.Button == tea.MouseButtonWheelDown ||
			msg.Button == tea.MouseButtonWheelLeft ||
			msg.Button == tea.MouseButtonWheelRight)
}

// mouseInBounds reports whether (x, y) falls inside the editor. An unsized
// editor accepts every coordinate.
func (m Model) mouseInBounds(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	if m.width <= 0 || m.height <= 0 {
		return true
	}
	return x < m.width && y < m.height
}

func (m Model) clampMouseToBounds(x, y int) (int, int) {
	if m.width > 0 {
		x = clampInt(x, 0, m.width-1)
	}
	if m.height > 0 {
		y = clampInt(y, 0, m.height-1)
	}
	return max(x, 0), max(y, 0)
}
