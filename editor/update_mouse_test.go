package editor

import (
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/format"
)

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func highlighted() delta.Delta {
	return delta.Delta{}.
		Insert("hello", nil).
		Insert(" wo", delta.AttributeMap{"highlight": true}).
		Insert("rld", nil)
}

func TestMouse_ClickPlacesCursor(t *testing.T) {
	m := mustNew(t, Config{Contents: text("ab\ncd")})

	m, _ = m.Update(click(1, 1))
	if got := caretOf(t, m); got != 4 {
		t.Fatalf("caret: got %d, want 4", got)
	}

	m, _ = m.Update(click(10, 0))
	if got := caretOf(t, m); got != 2 {
		t.Fatalf("caret past line end: got %d, want 2", got)
	}
}

func TestMouse_DragSelects(t *testing.T) {
	m := mustNew(t, Config{Contents: text("hello")})

	m, _ = m.Update(click(1, 0))
	m, _ = m.Update(tea.MouseMsg{X: 4, Y: 0, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = m.Update(tea.MouseMsg{X: 4, Y: 0, Action: tea.MouseActionRelease})

	r, ok := m.Buffer().Selection()
	if !ok || r != (buffer.Range{Index: 1, Length: 3}) {
		t.Fatalf("selection: got %v (active=%v), want {1 3}", r, ok)
	}
}

func TestMouse_ClickOnHighlightDispatchesRemoval(t *testing.T) {
	m := mustNew(t, Config{Contents: highlighted()})
	m.Buffer().SetSelection(&buffer.Range{Index: 11}, buffer.SourceSilent)

	m, cmd := m.Update(click(6, 0))
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg, ok := cmd().(format.RemoveFormatMsg)
	if !ok {
		t.Fatalf("message: got %T, want RemoveFormatMsg", cmd())
	}
	if msg != (format.RemoveFormatMsg{Format: "highlight", Index: 5, Length: 3}) {
		t.Fatalf("message: got %+v", msg)
	}

	// Propagation was stopped: the click does not move the cursor.
	if got := caretOf(t, m); got != 11 {
		t.Fatalf("caret: got %d, want 11", got)
	}
	if got := m.Buffer().Text(); got != "hello world" {
		t.Fatalf("text: got %q", got)
	}
}

func TestMouse_ClickOnListLineSkipsPrefix(t *testing.T) {
	d := delta.Delta{}.Insert("ab", nil).Insert("\n", delta.AttributeMap{"list": "bullet"})
	m := mustNew(t, Config{Contents: d})

	// "• " occupies two cells.
	m, _ = m.Update(click(3, 0))
	if got := caretOf(t, m); got != 1 {
		t.Fatalf("caret: got %d, want 1", got)
	}
}

type panicky struct{}

func (panicky) Name() string             { return "boom" }
func (panicky) Scope() format.Scope      { return format.ScopeInline }
func (panicky) Style(any) lipgloss.Style { return lipgloss.NewStyle() }
func (panicky) Create(s format.Span) format.Node {
	return format.Node{
		Span:        s,
		Interactive: true,
		OnActivate: func(ev *format.Event) {
			ev.StopPropagation()
			panic("boom")
		},
	}
}

func TestMouse_PanickingHandlerIsContained(t *testing.T) {
	reg := format.DefaultRegistry()
	reg.Register(panicky{})

	m := mustNew(t, Config{
		Contents: delta.Delta{}.Insert("ab", delta.AttributeMap{"boom": true}),
		Registry: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	m.Buffer().SetSelection(&buffer.Range{Index: 2}, buffer.SourceSilent)

	var cmd tea.Cmd
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("panic escaped the editor: %v", r)
			}
		}()
		m, cmd = m.Update(click(0, 0))
	}()
	if cmd != nil {
		t.Fatalf("expected no command from a panicking handler")
	}
	if got := caretOf(t, m); got != 0 {
		t.Fatalf("caret: got %d, want 0", got)
	}
}

func TestMouse_SnowToolbarClickToggles(t *testing.T) {
	m := mustNew(t, Config{
		Contents: text("hello"),
		Theme:    ThemeSnow,
		Toolbar:  []ToolbarItem{{Format: "bold"}, {Format: "italic"}},
	})
	m.Buffer().SetSelection(&buffer.Range{Index: 0, Length: 5}, buffer.SourceSilent)

	// "[B] [I]": the italic control starts at column 4.
	m, _ = m.Update(click(5, 0))
	got := m.Buffer().FormatsAt(buffer.Range{Index: 0, Length: 5})
	if !got.Has("italic") || got.Has("bold") {
		t.Fatalf("formats: got %v, want italic only", got)
	}

	// Row 1 is the first text row.
	m, _ = m.Update(click(2, 1))
	if c := caretOf(t, m); c != 2 {
		t.Fatalf("caret: got %d, want 2", c)
	}
}
