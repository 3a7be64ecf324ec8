package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/format"
)

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if !m.focused || m.buf == nil {
		return m, nil
	}

	// Paste events should always insert literal text and never trigger shortcuts.
	if msg.Type == tea.KeyRunes && msg.Paste && len(msg.Runes) > 0 {
		m.nodeFocus = -1
		m.buf.TypeText(normalizeNewlines(string(msg.Runes)))
		return m, nil
	}

	km := m.km

	if m.nodeFocus >= 0 {
		switch {
		case key.Matches(msg, km.Activate):
			n, _ := m.FocusedNode()
			_, cmd := m.activate(n)
			m.rebuildContent()
			return m, cmd
		case key.Matches(msg, km.Escape):
			m.nodeFocus = -1
			m.rebuildContent()
			return m, nil
		case key.Matches(msg, km.NextNode), key.Matches(msg, km.PrevNode):
		default:
			// Any other key returns to the text.
			m.nodeFocus = -1
			m.rebuildContent()
		}
	}

	switch {
	case key.Matches(msg, km.NextNode):
		m.focusNode(1)
	case key.Matches(msg, km.PrevNode):
		m.focusNode(-1)

	case key.Matches(msg, km.Left):
		m.buf.Move(buffer.Move{Unit: buffer.MoveRune, Dir: buffer.DirLeft})
	case key.Matches(msg, km.Right):
		m.buf.Move(buffer.Move{Unit: buffer.MoveRune, Dir: buffer.DirRight})
	case key.Matches(msg, km.Up):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirUp})
	case key.Matches(msg, km.Down):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirDown})

	case key.Matches(msg, km.ShiftLeft):
		m.buf.Move(buffer.Move{Unit: buffer.MoveRune, Dir: buffer.DirLeft, Extend: true})
	case key.Matches(msg, km.ShiftRight):
		m.buf.Move(buffer.Move{Unit: buffer.MoveRune, Dir: buffer.DirRight, Extend: true})
	case key.Matches(msg, km.ShiftUp):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirUp, Extend: true})
	case key.Matches(msg, km.ShiftDown):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirDown, Extend: true})

	case key.Matches(msg, km.WordLeft):
		m.buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirLeft})
	case key.Matches(msg, km.WordRight):
		m.buf.Move(buffer.Move{Unit: buffer.MoveWord, Dir: buffer.DirRight})

	case key.Matches(msg, km.Home):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirHome})
	case key.Matches(msg, km.End):
		m.buf.Move(buffer.Move{Unit: buffer.MoveLine, Dir: buffer.DirEnd})
	case key.Matches(msg, km.DocStart):
		m.buf.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirHome})
	case key.Matches(msg, km.DocEnd):
		m.buf.Move(buffer.Move{Unit: buffer.MoveDoc, Dir: buffer.DirEnd})

	case key.Matches(msg, km.Backspace):
		m.buf.Backspace()
	case key.Matches(msg, km.Delete):
		m.buf.DeleteForward()
	case key.Matches(msg, km.Enter):
		m.buf.TypeText("\n")

	case key.Matches(msg, km.Undo):
		_ = m.buf.Undo()
	case key.Matches(msg, km.Redo):
		_ = m.buf.Redo()

	case key.Matches(msg, km.Copy):
		m.copySelection()
	case key.Matches(msg, km.Cut):
		if m.buf.Enabled() {
			m.cutSelection()
		} else {
			m.copySelection()
		}
	case key.Matches(msg, km.Paste):
		m.pasteClipboard()

	case key.Matches(msg, km.Bold):
		m.toggle("bold", true)
	case key.Matches(msg, km.Italic):
		m.toggle("italic", true)
	case key.Matches(msg, km.Underline):
		m.toggle("underline", true)
	case key.Matches(msg, km.Highlight):
		m.toggle(format.HighlightName, true)

	default:
		if msg.Type == tea.KeyTab {
			m.buf.TypeText("\t")
			return m, nil
		}
		if msg.Type == tea.KeySpace {
			m.buf.TypeText(" ")
			return m, nil
		}
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 && !msg.Alt {
			m.buf.TypeText(string(msg.Runes))
		}
	}

	return m, nil
}

// toggle flips a format over the selection when the registry and allowlist
// know it.
func (m *Model) toggle(name string, value any) {
	if !m.reg.Has(name) || !m.buf.Allows(name) {
		return
	}
	m.buf.ToggleFormat(name, value)
}

// focusNode moves keyboard focus to the next (dir > 0) or previous
// interactive node. Without a focused node it starts from the cursor.
func (m *Model) focusNode(dir int) {
	if len(m.nodes) == 0 {
		return
	}
	next := -1
	if m.nodeFocus >= 0 {
		next = m.nodeFocus + dir
	} else {
		cursor := m.buf.Cursor()
		if dir > 0 {
			for i, n := range m.nodes {
				if n.Span.End() > cursor {
					next = i
					break
				}
			}
		} else {
			for i := len(m.nodes) - 1; i >= 0; i-- {
				if m.nodes[i].Span.Index < cursor {
					next = i
					break
				}
			}
		}
	}
	if next < 0 || next >= len(m.nodes) {
		return
	}
	m.nodeFocus = next
	m.rebuildContent()
}

// activate runs the node's activation hook with an event bound to this
// editor. Messages the hook dispatches are returned as commands. A panicking
// hook is logged and its messages dropped.
func (m *Model) activate(n format.Node) (stopped bool, cmd tea.Cmd) {
	if !n.Interactive || n.OnActivate == nil {
		return false, nil
	}
	var msgs []tea.Msg
	ev := format.NewEvent(func(msg tea.Msg) { msgs = append(msgs, msg) })

	panicked := false
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicked = true
				m.log.Error("editor: activation handler panicked", "format", n.Format, "panic", r)
			}
		}()
		n.OnActivate(ev)
	}()
	if panicked {
		return false, nil
	}

	cmds := make([]tea.Cmd, 0, len(msgs))
	for _, msg := range msgs {
		cmds = append(cmds, msgCmd(msg))
	}
	return ev.Stopped(), tea.Batch(cmds...)
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m Model) selectedText() string {
	r, ok := m.buf.Selection()
	if !ok || r.IsEmpty() {
		return ""
	}
	return m.buf.Contents().Slice(r.Index, r.End()).Text()
}

func (m Model) copySelection() {
	if m.cfg.Clipboard == nil || m.buf == nil {
		return
	}
	s := m.selectedText()
	if s == "" {
		return
	}
	if err := m.cfg.Clipboard.WriteText(s); err != nil {
		m.log.Warn("editor: clipboard write failed", "error", err)
	}
}

func (m Model) cutSelection() {
	if m.cfg.Clipboard == nil || m.buf == nil {
		return
	}
	s := m.selectedText()
	if s == "" {
		return
	}
	if err := m.cfg.Clipboard.WriteText(s); err != nil {
		m.log.Warn("editor: clipboard write failed", "error", err)
		return
	}
	m.buf.DeleteSelection()
}

func (m Model) pasteClipboard() {
	if m.cfg.Clipboard == nil || m.buf == nil {
		return
	}
	s, err := m.cfg.Clipboard.ReadText()
	if err != nil {
		m.log.Warn("editor: clipboard read failed", "error", err)
		return
	}
	if s == "" {
		return
	}
	m.buf.TypeText(normalizeNewlines(s))
}

// normalizeNewlines converts newlines from external sources.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
