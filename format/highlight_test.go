package format

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iw2rmb/richbridge/buffer"
	"github.com/iw2rmb/richbridge/delta"
)

func TestHighlight_CreateIsInteractiveButton(t *testing.T) {
	n := NewHighlight().Create(Span{Index: 5, Length: 3, Value: true})

	assert.Equal(t, "strong", n.Tag)
	assert.Equal(t, "highlight", n.Class)
	assert.Equal(t, "button", n.Attrs["role"])
	assert.Equal(t, "0", n.Attrs["tabindex"])
	assert.True(t, n.Focusable)
	assert.True(t, n.Interactive)
	require.NotNil(t, n.OnActivate)
}

func TestHighlight_ActivateStopsPropagationAndDispatchesRemoval(t *testing.T) {
	n := NewHighlight().Create(Span{Index: 5, Length: 3, Value: true})

	var got []tea.Msg
	ev := NewEvent(func(msg tea.Msg) { got = append(got, msg) })
	n.OnActivate(ev)

	assert.True(t, ev.Stopped())
	require.Len(t, got, 1)
	assert.Equal(t, RemoveFormatMsg{Format: "highlight", Index: 5, Length: 3}, got[0])
}

func TestHighlight_ActivateZeroLengthIsNoop(t *testing.T) {
	n := NewHighlight().Create(Span{Index: 2})

	dispatched := false
	ev := NewEvent(func(tea.Msg) { dispatched = true })
	n.OnActivate(ev)

	assert.True(t, ev.Stopped())
	assert.False(t, dispatched)
}

func TestHighlight_ActivateWithoutDispatcher(t *testing.T) {
	n := NewHighlight().Create(Span{Index: 0, Length: 4})
	ev := NewEvent(nil)

	assert.NotPanics(t, func() { n.OnActivate(ev) })
	assert.True(t, ev.Stopped())
	assert.False(t, ev.Dispatch(RemoveFormatMsg{}))
}

func TestRemoveFormatMsg_ApplyRemovesOnlyTheFormat(t *testing.T) {
	d := delta.Delta{}.
		Insert("hello", nil).
		Insert(" wo", delta.AttributeMap{"highlight": true}).
		Insert("rld", nil)
	b := buffer.New(d, buffer.Options{})
	b.SetSelection(&buffer.Range{Index: 11}, buffer.SourceSilent)

	var sources []buffer.Source
	b.On(buffer.EventTextChange, func(ev buffer.Event) { sources = append(sources, ev.Source) })

	changed := RemoveFormatMsg{Format: "highlight", Index: 5, Length: 3}.Apply(b)

	require.True(t, changed)
	assert.Equal(t, "hello world", b.Text())
	assert.True(t, b.Contents().Equal(delta.Delta{}.Insert("hello world", nil)))
	r, ok := b.Selection()
	require.True(t, ok)
	assert.Equal(t, buffer.Range{Index: 11}, r)
	assert.Equal(t, []buffer.Source{buffer.SourceUser}, sources)
}

func TestRemoveFormatMsg_ApplyNoop(t *testing.T) {
	b := buffer.New(delta.Delta{}.Insert("abc", nil), buffer.Options{})

	assert.False(t, RemoveFormatMsg{Format: "highlight", Index: 0, Length: 3}.Apply(b))
	assert.False(t, RemoveFormatMsg{Format: "highlight", Index: 0}.Apply(b))
	assert.False(t, RemoveFormatMsg{Format: "highlight", Index: 0, Length: 1}.Apply(nil))
}
