package buffer

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/iw2rmb/richbridge/delta"
)

// InsertText inserts text at index with attrs.
func (b *Buffer) InsertText(index int, text string, attrs delta.AttributeMap, src Source) delta.Delta {
	if text == "" {
		return delta.Delta{}
	}
	index = clampInt(index, 0, b.length)
	change := delta.Delta{}.Retain(index, nil).Insert(text, attrs)
	return b.apply(change, src, nil, src == SourceUser)
}

// DeleteText deletes length offsets starting at index.
func (b *Buffer) DeleteText(index, length int, src Source) delta.Delta {
	index, length = b.clampRange(index, length)
	if length == 0 {
		return delta.Delta{}
	}
	change := delta.Delta{}.Retain(index, nil).Delete(length)
	return b.apply(change, src, nil, src == SourceUser)
}

// FormatText sets the named format to value over [index, index+length). A
// value of nil or false removes the format. Only attributes change: inline
// formats skip newlines and block formats apply to the newline ending each
// touched line.
func (b *Buffer) FormatText(index, length int, name string, value any, src Source) delta.Delta {
	if name == "" || !b.Allows(name) {
		return delta.Delta{}
	}
	if v, ok := value.(bool); ok && !v {
		value = nil
	}
	attrs := delta.AttributeMap{name: value}

	if b.block[name] {
		return b.apply(b.blockFormatChange(index, length, attrs), src, nil, src == SourceUser)
	}

	index, length = b.clampRange(index, length)
	if length == 0 {
		return delta.Delta{}
	}
	return b.apply(b.inlineFormatChange(index, length, attrs), src, nil, src == SourceUser)
}

func (b *Buffer) inlineFormatChange(index, length int, attrs delta.AttributeMap) delta.Delta {
	change := delta.Delta{}.Retain(index, nil)
	text := []rune(b.doc.Slice(index, index+length).Text())
	run := 0
	flush := func() {
		change = change.Retain(run, attrs)
		run = 0
	}
	for _, r := range text {
		if r == '\n' {
			flush()
			change = change.Retain(1, nil)
			continue
		}
		run++
	}
	flush()
	return change
}

func (b *Buffer) blockFormatChange(index, length int, attrs delta.AttributeMap) delta.Delta {
	index, length = b.clampRange(index, length)
	end := index + length
	lines := b.Lines()

	change := delta.Delta{}
	pos := 0
	for row, line := range lines {
		lineEnd := line.Start + line.Length()
		if lineEnd < index || line.Start > end {
			continue
		}
		if row == len(lines)-1 {
			// The last line has no newline yet; terminate it.
			if attrs.Has(firstKey(attrs)) {
				change = change.Retain(lineEnd-pos, nil).Insert("\n", attrs)
			}
			break
		}
		change = change.Retain(lineEnd-pos, nil).Retain(1, attrs)
		pos = lineEnd + 1
	}
	return change
}

func firstKey(m delta.AttributeMap) string {
	for k := range m {
		return k
	}
	return ""
}

// TypeText replaces the selection (or inserts at the caret) with s as a user
// edit. Text inherits the inline formats before the caret; newlines continue
// the current line's block formats.
func (b *Buffer) TypeText(s string) {
	if s == "" {
		return
	}
	r := b.caretRange()
	inline := b.inlineFormatsAt(r.Index)
	_, line := b.lineAt(r.Index)
	blockAttrs := line.Attributes

	change := delta.Delta{}.Retain(r.Index, nil).Delete(r.Length)
	parts := strings.Split(s, "\n")
	for i, part := range parts {
		change = change.Insert(part, inline)
		if i < len(parts)-1 {
			change = change.Insert("\n", blockAttrs)
		}
	}

	caret := r.Index + utf8.RuneCountInString(s)
	b.apply(change, SourceUser, &selectionState{active: true, anchor: caret, head: caret}, true)
}

// Backspace deletes the selection or the offset before the caret.
func (b *Buffer) Backspace() {
	r := b.caretRange()
	if r.Length == 0 {
		if r.Index == 0 {
			return
		}
		r = Range{Index: r.Index - 1, Length: 1}
	}
	b.deleteRangeUser(r)
}

// DeleteForward deletes the selection or the offset after the caret.
func (b *Buffer) DeleteForward() {
	r := b.caretRange()
	if r.Length == 0 {
		if r.Index >= b.length {
			return
		}
		r = Range{Index: r.Index, Length: 1}
	}
	b.deleteRangeUser(r)
}

// DeleteSelection deletes the active selection, if any.
func (b *Buffer) DeleteSelection() {
	r, ok := b.Selection()
	if !ok || r.IsEmpty() {
		return
	}
	b.deleteRangeUser(r)
}

func (b *Buffer) deleteRangeUser(r Range) {
	change := delta.Delta{}.Retain(r.Index, nil).Delete(r.Length)
	b.apply(change, SourceUser, &selectionState{active: true, anchor: r.Index, head: r.Index}, true)
}

// ToggleFormat sets name to value over the selection, or removes it when the
// whole selection already carries that value.
func (b *Buffer) ToggleFormat(name string, value any) {
	r, ok := b.Selection()
	if !ok {
		return
	}
	if r.Length == 0 && !b.block[name] {
		return
	}
	current := b.FormatsAt(r)
	if v, has := current[name]; has && reflect.DeepEqual(v, value) {
		value = nil
	}
	b.FormatText(r.Index, r.Length, name, value, SourceUser)
}

// FormatsAt returns the formats shared by every offset in r, plus the block
// formats of the line containing r.Index. For a caret, the inline formats are
// those of the preceding offset.
func (b *Buffer) FormatsAt(r Range) delta.AttributeMap {
	out := delta.AttributeMap{}
	if r.Length == 0 {
		for k, v := range b.inlineFormatsAt(r.Index) {
			out[k] = v
		}
	} else {
		var common delta.AttributeMap
		first := true
		for _, op := range b.doc.Slice(r.Index, r.End()).Ops() {
			if op.Insert != "" && strings.Trim(op.Insert, "\n") == "" {
				continue
			}
			if first {
				common = op.Attributes
				first = false
				continue
			}
			common = intersect(common, op.Attributes)
		}
		for k, v := range common {
			if !b.block[k] {
				out[k] = v
			}
		}
	}
	_, line := b.lineAt(r.Index)
	for k, v := range line.Attributes {
		out[k] = v
	}
	return out
}

func intersect(a, c delta.AttributeMap) delta.AttributeMap {
	out := delta.AttributeMap{}
	for k, v := range a {
		if w, ok := c[k]; ok && reflect.DeepEqual(w, v) {
			out[k] = v
		}
	}
	return out
}

func (b *Buffer) inlineFormatsAt(index int) delta.AttributeMap {
	if index <= 0 {
		return nil
	}
	ops := b.doc.Slice(index-1, index).Ops()
	if len(ops) == 0 || ops[0].Insert == "\n" {
		return nil
	}
	out := delta.AttributeMap{}
	for k, v := range ops[0].Attributes {
		if !b.block[k] {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// caretRange returns the selection, or a caret at the last cursor position
// when the buffer has no focus.
func (b *Buffer) caretRange() Range {
	if r, ok := b.Selection(); ok {
		return r
	}
	return Range{Index: b.Cursor()}
}
