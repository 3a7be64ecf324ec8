package editor

import (
	"reflect"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/richbridge/format"
)

func (m Model) View() string {
	if m.buf != nil && m.buf.Version() != m.lastBufVersion {
		// The buffer changed outside Update; render from a refreshed copy.
		m.rebuildContent()
	}

	body := m.viewport.View()
	if m.height == 0 {
		body = m.renderContent()
	}

	switch m.theme {
	case ThemeSnow:
		return m.renderToolbar() + "\n" + body
	case ThemeBubble:
		bar := ""
		if r, ok := m.buf.Selection(); ok && !r.IsEmpty() {
			bar = m.renderToolbar()
		}
		return body + "\n" + bar
	default:
		return body
	}
}

func (m Model) toolbarHeight() int {
	if m.theme == ThemeCore {
		return 0
	}
	return 1
}

// contentTop is the first screen row of the text area.
func (m Model) contentTop() int {
	if m.theme == ThemeSnow {
		return 1
	}
	return 0
}

func (m *Model) renderContent() string {
	if m.buf == nil {
		return ""
	}
	if m.buf.Length() == 0 {
		return m.renderPlaceholder()
	}

	cursor := m.buf.Cursor()
	sel, selOK := m.buf.Selection()
	showCursor := m.focused && selOK && sel.IsEmpty() && m.nodeFocus < 0

	var focusNode format.Node
	hasFocusNode := false
	if n, ok := m.FocusedNode(); ok && m.focused {
		focusNode, hasFocusNode = n, true
	}

	out := make([]string, 0, len(m.lines))
	for _, line := range m.lines {
		var sb strings.Builder
		if line.prefix != "" {
			sb.WriteString(m.st.ListPrefix.Render(line.prefix))
		}
		for _, c := range line.cells {
			st := m.cellStyle(c)
			if selOK && !sel.IsEmpty() && c.index >= sel.Index && c.index < sel.End() {
				st = m.st.Selection.Inherit(st)
			}
			if hasFocusNode && c.index >= focusNode.Span.Index && c.index < focusNode.Span.End() {
				st = m.st.NodeFocus.Inherit(st)
			}
			if showCursor && c.index == cursor {
				st = m.st.Cursor.Inherit(st)
			}
			sb.WriteString(st.Render(c.text))
		}
		if showCursor && cursor == line.start+line.length {
			sb.WriteString(m.st.Cursor.Render(" "))
		}
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}

// cellStyle layers the styles of the cell's inline formats in name order.
func (m *Model) cellStyle(c cell) lipgloss.Style {
	st := m.st.Text
	if c.embed {
		st = m.st.Embed.Inherit(st)
	}
	if len(c.attrs) == 0 {
		return st
	}
	names := make([]string, 0, len(c.attrs))
	for name := range c.attrs {
		if c.attrs.Has(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := m.reg.Lookup(name)
		if !ok || f.Scope() != format.ScopeInline {
			continue
		}
		st = st.Inherit(f.Style(c.attrs[name]))
	}
	return st
}

func (m *Model) renderPlaceholder() string {
	showCursor := m.focused
	if _, ok := m.buf.Selection(); !ok {
		showCursor = false
	}
	ph := []rune(m.cfg.Placeholder)
	if len(ph) == 0 {
		if showCursor {
			return m.st.Cursor.Render(" ")
		}
		return ""
	}
	if !showCursor {
		return m.st.Placeholder.Render(string(ph))
	}
	return m.st.Cursor.Inherit(m.st.Placeholder).Render(string(ph[:1])) + m.st.Placeholder.Render(string(ph[1:]))
}

func toolbarLabel(item ToolbarItem) string {
	switch item.Format {
	case "bold":
		return "B"
	case "italic":
		return "I"
	case "underline":
		return "U"
	case "strike":
		return "S"
	case "code":
		return "<>"
	case "highlight":
		return "H"
	case "list":
		switch item.Value {
		case format.ListOrdered:
			return "1."
		case format.ListBullet:
			return "•"
		}
	}
	return item.Format
}

// toolbarSlots returns the rendered label of every item with its cell span.
func (m Model) toolbarSlots() (labels []string, starts []int) {
	col := 0
	for i, item := range m.cfg.Toolbar {
		if i > 0 {
			col++
		}
		label := "[" + toolbarLabel(item) + "]"
		labels = append(labels, label)
		starts = append(starts, col)
		col += lipgloss.Width(label)
	}
	return labels, starts
}

func (m Model) renderToolbar() string {
	labels, _ := m.toolbarSlots()
	if len(labels) == 0 {
		return ""
	}
	var active map[string]any
	if r, ok := m.buf.Selection(); ok {
		active = m.buf.FormatsAt(r)
	}
	parts := make([]string, len(labels))
	for i, item := range m.cfg.Toolbar {
		st := m.st.ToolbarItem
		if v, ok := active[item.Format]; ok && (item.Value == nil || reflect.DeepEqual(v, item.Value)) {
			st = m.st.ToolbarActive
		}
		parts[i] = st.Render(labels[i])
	}
	return m.st.Toolbar.Render(strings.Join(parts, " "))
}

// toolbarItemAt returns the toolbar item under column x.
func (m Model) toolbarItemAt(x int) (ToolbarItem, bool) {
	labels, starts := m.toolbarSlots()
	for i, label := range labels {
		if x >= starts[i] && x < starts[i]+lipgloss.Width(label) {
			return m.cfg.Toolbar[i], true
		}
	}
	return ToolbarItem{}, false
}
