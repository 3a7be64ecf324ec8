package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/editor"
	"github.com/iw2rmb/richbridge/format"
	"github.com/iw2rmb/richbridge/task"
)

type countingEngine struct {
	Engine
	setContents  int
	setSelection int
}

func (c *countingEngine) SetContents(d delta.Delta, src buffer.Source) error {
	c.setContents++
	return c.Engine.SetContents(d, src)
}

func (c *countingEngine) SetSelection(r *buffer.Range, src buffer.Source) {
	c.setSelection++
	c.Engine.SetSelection(r, src)
}

func (c *countingEngine) reset() {
	c.setContents = 0
	c.setSelection = 0
}

type harness struct {
	el     *Element
	q      *task.Queue
	eng    *countingEngine
	events []ChangeEvent
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{q: task.NewQueue()}
	h.el = New(Config{
		Scheduler: h.q,
		OnChange:  func(ev ChangeEvent) { h.events = append(h.events, ev) },
		WrapEngine: func(e Engine) Engine {
			h.eng = &countingEngine{Engine: e}
			return h.eng
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return h
}

func (h *harness) attach(t *testing.T) {
	t.Helper()
	require.NoError(t, h.el.Attach())
	h.eng.reset()
}

func (h *harness) buf() *buffer.Buffer { return h.el.Editor().Buffer() }

func text(s string) delta.Delta { return delta.Delta{}.Insert(s, nil) }

func TestAttach_InitialSyncEmitsNothing(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.SetContent(`[{"insert":"hello"}]`))
	h.el.SetSelection(&buffer.Range{Index: 5})
	require.NoError(t, h.el.Attach())

	assert.Equal(t, 1, h.eng.setContents)
	assert.Equal(t, 1, h.eng.setSelection)
	assert.Equal(t, "hello", h.buf().Text())
	r, ok := h.buf().Selection()
	require.True(t, ok)
	assert.Equal(t, buffer.Range{Index: 5}, r)
	assert.Equal(t, "hello", strings.TrimRight(h.el.View(), " "))

	assert.Equal(t, 0, h.q.Len())
	h.q.Drain()
	assert.Empty(t, h.events)
}

func TestAttach_DefaultsToEmptyDocument(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.Attach())

	assert.Equal(t, 0, h.buf().Length())
	_, ok := h.buf().Selection()
	assert.False(t, ok)
	assert.Equal(t, 0, h.q.Len())
}

func TestSetContent_SilentReplaceEmitsNothing(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.SetContent(text("abc")))
	h.attach(t)

	b := delta.Delta{}.Insert("xyz", delta.AttributeMap{"bold": true})
	require.NoError(t, h.el.SetContent(b))

	assert.Equal(t, 1, h.eng.setContents)
	assert.True(t, h.buf().Contents().Equal(b))
	assert.Equal(t, 0, h.q.Len())
	h.q.Drain()
	assert.Empty(t, h.events)
}

func TestSetContent_IdempotentButSelectionReapplied(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.SetContent(text("abc")))
	h.attach(t)

	// Same document, different op boundaries.
	same := delta.New(delta.Op{Insert: "ab"}, delta.Op{Insert: "c"})
	require.NoError(t, h.el.SetContent(same))
	assert.Equal(t, 0, h.eng.setContents)
	assert.Equal(t, 1, h.eng.setSelection)

	// A user caret move is overwritten by the stored selection on the next
	// sync even though the content is unchanged.
	h.buf().SetSelection(&buffer.Range{Index: 1}, buffer.SourceUser)
	h.q.Drain()
	require.Len(t, h.events, 1)

	require.NoError(t, h.el.SetContent(text("abc")))
	assert.Equal(t, 0, h.eng.setContents)
	assert.Equal(t, 2, h.eng.setSelection)
	_, ok := h.buf().Selection()
	assert.False(t, ok)
	assert.Equal(t, 0, h.q.Len())
}

func TestUserMutations_CoalesceIntoOneEvent(t *testing.T) {
	h := newHarness(t)
	h.attach(t)
	b := h.buf()

	b.InsertText(0, "a", nil, buffer.SourceUser)
	b.InsertText(1, "b", nil, buffer.SourceUser)
	b.InsertText(2, "c", nil, buffer.SourceUser)
	b.SetSelection(&buffer.Range{Index: 1, Length: 2}, buffer.SourceUser)

	assert.Equal(t, 1, h.q.Len())
	assert.Empty(t, h.events, "events must not be emitted synchronously")

	h.q.Drain()
	require.Len(t, h.events, 1)
	ev := h.events[0]
	assert.True(t, ev.Delta.Equal(text("abc")), "got %v", ev.Delta)
	require.NotNil(t, ev.Range)
	assert.Equal(t, buffer.Range{Index: 1, Length: 2}, *ev.Range)

	b.InsertText(3, "d", nil, buffer.SourceUser)
	assert.Equal(t, 1, h.q.Len())
}

func TestFlush_ReadsLiveStateAtRunTime(t *testing.T) {
	h := newHarness(t)
	h.attach(t)
	b := h.buf()

	b.InsertText(0, "draft", nil, buffer.SourceUser)
	// A silent write after the user edit is still what the flush observes.
	require.NoError(t, b.SetContents(text("final"), buffer.SourceSilent))

	h.q.Drain()
	require.Len(t, h.events, 1)
	assert.Equal(t, "final", h.events[0].Delta.Text())
}

func TestSilentMutations_NeverEmit(t *testing.T) {
	h := newHarness(t)
	h.attach(t)
	b := h.buf()

	b.InsertText(0, strings.Repeat("lorem ipsum\n", 50), nil, buffer.SourceSilent)
	b.FormatText(0, 100, "bold", true, buffer.SourceSilent)
	b.SetSelection(&buffer.Range{Index: 3, Length: 40}, buffer.SourceSilent)
	b.DeleteText(0, 200, buffer.SourceSilent)

	assert.Equal(t, 0, h.q.Len())
	h.q.Drain()
	assert.Empty(t, h.events)
}

func TestNormalizeToolbarFormats(t *testing.T) {
	got := NormalizeToolbarFormats([]string{"bold", "list", "italic"})
	assert.Equal(t, []editor.ToolbarItem{
		{Format: "bold"},
		{Format: "list", Value: "ordered"},
		{Format: "list", Value: "bullet"},
		{Format: "italic"},
	}, got)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `["bold",{"list":"ordered"},{"list":"bullet"},"italic"]`, string(data))

	assert.Nil(t, NormalizeToolbarFormats(nil))
}

func TestHighlightActivation_RemovesOnlyTheFormat(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.SetContent(
		`[{"insert":"hello"},{"insert":" wo","attributes":{"highlight":true,"italic":true}},{"insert":"rld"}]`))
	h.el.SetSelection(&buffer.Range{Index: 11})
	h.attach(t)

	_, cmd := h.el.Update(tea.MouseMsg{X: 6, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	require.NotNil(t, cmd)
	msg, ok := cmd().(format.RemoveFormatMsg)
	require.True(t, ok)
	assert.Equal(t, format.RemoveFormatMsg{Format: "highlight", Index: 5, Length: 3}, msg)

	// The suppressed click neither moved the cursor nor scheduled a flush.
	assert.Equal(t, 0, h.q.Len())

	require.True(t, h.el.RemoveFormat(msg))
	want := delta.Delta{}.
		Insert("hello", nil).
		Insert(" wo", delta.AttributeMap{"italic": true}).
		Insert("rld", nil)
	assert.True(t, h.buf().Contents().Equal(want), "got %v", h.buf().Contents())
	r, ok := h.buf().Selection()
	require.True(t, ok)
	assert.Equal(t, buffer.Range{Index: 11}, r)

	h.q.Drain()
	require.Len(t, h.events, 1)
	assert.True(t, h.events[0].Delta.Equal(want))
	assert.Equal(t, &buffer.Range{Index: 11}, h.events[0].Range)
}

func TestSetContent_MalformedKeepsPrior(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.SetContent(`[{"insert":"ok"}]`))
	h.attach(t)

	var mce *delta.MalformedContentError
	for _, bad := range []any{
		`[{"bogus":1}]`,
		`{"ops":[{"insert":"x"},{"retain":2}]}`,
		delta.Delta{}.Retain(2, nil),
		42,
	} {
		err := h.el.SetContent(bad)
		require.ErrorAs(t, err, &mce, "input %v", bad)
	}

	assert.Equal(t, "ok", h.el.Content().Text())
	assert.Equal(t, "ok", h.buf().Text())
	assert.Equal(t, 0, h.eng.setContents)
	assert.Equal(t, 0, h.eng.setSelection)
}

func TestSetContent_NilIsEmptyDocument(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.SetContent(text("x")))
	h.attach(t)

	require.NoError(t, h.el.SetContent(nil))
	assert.Equal(t, 0, h.buf().Length())
}

func TestSetReadOnly_TogglesEngine(t *testing.T) {
	h := newHarness(t)
	h.el.SetReadOnly(true)
	h.attach(t)
	b := h.buf()
	assert.False(t, b.Enabled())

	b.InsertText(0, "x", nil, buffer.SourceUser)
	assert.Equal(t, 0, b.Length())
	assert.Equal(t, 0, h.q.Len())

	h.el.SetReadOnly(false)
	assert.True(t, b.Enabled())
	h.el.SetReadOnly(true)
	assert.False(t, b.Enabled())
}

func TestDetach_PendingFlushIsNoop(t *testing.T) {
	h := newHarness(t)
	h.attach(t)
	b := h.buf()

	b.InsertText(0, "x", nil, buffer.SourceUser)
	require.Equal(t, 1, h.q.Len())

	h.el.Detach()
	assert.NotPanics(t, func() { h.q.Drain() })
	assert.Empty(t, h.events)
	assert.False(t, h.el.Attached())
	assert.Nil(t, h.el.Engine())
	assert.Equal(t, "", h.el.View())

	// The listener is gone.
	b.InsertText(0, "y", nil, buffer.SourceUser)
	assert.Equal(t, 0, h.q.Len())
	assert.False(t, h.el.Format(0, 1, "bold", true))
}

func TestReattach_BuildsFreshEditor(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.el.SetContent(text("keep")))
	h.attach(t)
	first := h.buf()

	first.InsertText(0, "x", nil, buffer.SourceUser)
	h.el.Detach()
	h.attach(t)
	h.q.Drain()

	assert.NotSame(t, first, h.buf())
	assert.Equal(t, "keep", h.buf().Text())
	assert.Empty(t, h.events)
}

func TestAttach_UnknownThemeFails(t *testing.T) {
	h := newHarness(t)
	h.el.SetTheme("neon")

	err := h.el.Attach()
	var ie *InitializationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, h.el.ID(), ie.ID)
	assert.True(t, errors.Is(err, editor.ErrUnknownTheme))
	assert.False(t, h.el.Attached())
	assert.Nil(t, h.el.Engine())
	assert.Equal(t, "", h.el.View())

	h.el.SetTheme(editor.ThemeSnow)
	require.NoError(t, h.el.Attach())
	assert.True(t, h.el.Attached())
}

func TestAttach_UnknownFormatFails(t *testing.T) {
	h := newHarness(t)
	h.el.SetFormats([]string{"bold", "sparkle"})

	err := h.el.Attach()
	require.ErrorIs(t, err, editor.ErrUnknownFormat)
	assert.False(t, h.el.Attached())
}

func TestAttach_ConfiguresEditorFromProperties(t *testing.T) {
	h := newHarness(t)
	h.el.SetFormats([]string{"bold", "list"})
	h.el.SetTheme(editor.ThemeSnow)
	h.el.SetPlaceholder("Compose")
	h.attach(t)

	ed := h.el.Editor()
	assert.Equal(t, editor.ThemeSnow, ed.Theme())
	assert.Equal(t, NormalizeToolbarFormats([]string{"bold", "list"}), ed.Toolbar())
	assert.Equal(t, h.el.ID(), ed.ID())

	lines := strings.Split(h.el.View(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[B] [1.] [•]", lines[0])
	assert.Equal(t, "Compose", lines[1])

	// The allowlist drops formats outside the configured set.
	require.NoError(t, h.el.SetContent(delta.Delta{}.Insert("x", delta.AttributeMap{"italic": true, "bold": true})))
	ops := h.buf().Contents().Ops()
	require.Len(t, ops, 1)
	assert.True(t, ops[0].Attributes.Has("bold"))
	assert.False(t, ops[0].Attributes.Has("italic"))

	h.el.SetPlaceholder("Later")
	assert.Equal(t, "Later", h.el.Editor().Placeholder())
}

type leakyEngine struct{ Engine }

// SetSelection tags every selection write as a user edit.
func (l leakyEngine) SetSelection(r *buffer.Range, _ buffer.Source) {
	l.Engine.SetSelection(r, buffer.SourceUser)
}

func TestFeedbackLoop_LoggedNotEmitted(t *testing.T) {
	var logs bytes.Buffer
	q := task.NewQueue()
	var events []ChangeEvent
	el := New(Config{
		Scheduler:  q,
		OnChange:   func(ev ChangeEvent) { events = append(events, ev) },
		WrapEngine: func(e Engine) Engine { return leakyEngine{e} },
		Logger:     slog.New(slog.NewTextHandler(&logs, nil)),
	})
	el.SetSelection(&buffer.Range{Index: 0})
	require.NoError(t, el.Attach())

	assert.Equal(t, 0, q.Len())
	q.Drain()
	assert.Empty(t, events)
	assert.Contains(t, logs.String(), ErrFeedbackLoopViolation.Error())
}

func TestApply_HostRerenderIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.attach(t)

	props := Props{Content: text("abc"), Selection: &buffer.Range{Index: 1}}
	require.NoError(t, h.el.Apply(props))
	require.NoError(t, h.el.Apply(props))
	require.NoError(t, h.el.Apply(props))

	assert.Equal(t, 1, h.eng.setContents)
	assert.Equal(t, 3, h.eng.setSelection)
	assert.Equal(t, 0, h.q.Len())

	err := h.el.Apply(Props{Content: `[{"retain":1}]`, Selection: &buffer.Range{Index: 2}})
	var mce *delta.MalformedContentError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, "abc", h.buf().Text())
	r, _ := h.buf().Selection()
	assert.Equal(t, buffer.Range{Index: 2}, r)
}

func TestUpdate_DeliversChangeMsg(t *testing.T) {
	el := New(Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	wait := el.Init()
	require.NotNil(t, wait)
	require.NoError(t, el.Attach())

	el.Editor().Buffer().InsertText(0, "x", nil, buffer.SourceUser)

	ready := wait()
	_, cmd := el.Update(ready)
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	msg, ok := batch[0]().(ChangeMsg)
	require.True(t, ok)
	assert.Equal(t, el.ID(), msg.ElementID)
	assert.Equal(t, "x", msg.Delta.Text())

	_, cmd = el.Update(task.ReadyMsg{Queue: task.NewQueue()})
	assert.Nil(t, cmd)
}

func TestChangeEvent_JSON(t *testing.T) {
	data, err := json.Marshal(ChangeEvent{Delta: text("hi"), Range: &buffer.Range{Index: 2}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"delta":{"ops":[{"insert":"hi"}]},"range":{"index":2,"length":0}}`, string(data))

	data, err = json.Marshal(ChangeEvent{Delta: text("hi")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"delta":{"ops":[{"insert":"hi"}]},"range":null}`, string(data))
}
