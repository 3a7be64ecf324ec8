package buffer

import (
	"testing"

	"github.com/iw2rmb/richbridge/delta"
)

func TestHistory_UndoRedo(t *testing.T) {
	b := New(delta.Delta{}, Options{})
	b.TypeText("hi")

	if !b.Undo() {
		t.Fatalf("expected undo")
	}
	if b.Text() != "" {
		t.Fatalf("after undo text=%q, want empty", b.Text())
	}
	if !b.CanRedo() {
		t.Fatalf("expected redo available")
	}

	if !b.Redo() {
		t.Fatalf("expected redo")
	}
	if b.Text() != "hi" {
		t.Fatalf("after redo text=%q, want %q", b.Text(), "hi")
	}
	if r, ok := b.Selection(); !ok || r != (Range{Index: 2}) {
		t.Fatalf("selection=%v ok=%v, want caret at 2", r, ok)
	}
}

func TestHistory_NewEditClearsRedo(t *testing.T) {
	b := New(delta.Delta{}, Options{})
	b.TypeText("a")
	b.Undo()
	b.TypeText("b")
	if b.CanRedo() {
		t.Fatalf("expected redo cleared")
	}
}

func TestHistory_Limit(t *testing.T) {
	b := New(delta.Delta{}, Options{HistoryLimit: 2})
	b.TypeText("a")
	b.TypeText("b")
	b.TypeText("c")

	undos := 0
	for b.Undo() {
		undos++
	}
	if undos != 2 {
		t.Fatalf("undos=%d, want 2", undos)
	}
	if b.Text() != "a" {
		t.Fatalf("text=%q, want %q", b.Text(), "a")
	}
}

func TestHistory_SilentEditsAreNotRecorded(t *testing.T) {
	b := New(delta.Delta{}, Options{})
	b.InsertText(0, "x", nil, SourceSilent)
	if b.CanUndo() {
		t.Fatalf("expected silent insert to skip history")
	}
}

func TestHistory_DisabledBlocksUndo(t *testing.T) {
	b := New(delta.Delta{}, Options{})
	b.TypeText("x")
	b.Enable(false)
	if b.Undo() {
		t.Fatalf("expected undo blocked while disabled")
	}
	if b.Text() != "x" {
		t.Fatalf("text=%q, want %q", b.Text(), "x")
	}
}

func TestHistory_UndoRestoresFormat(t *testing.T) {
	b := New(doc("abc"), Options{})
	b.FormatText(0, 3, "bold", true, SourceUser)
	b.Undo()
	if !b.Contents().Equal(doc("abc")) {
		t.Fatalf("contents=%v, want plain", b.Contents())
	}
}
