package delta

import (
	"math"
	"reflect"
	"strings"
)

// ObjectReplacement stands in for embeds in Text.
const ObjectReplacement = '￼'

// Delta is an immutable sequence of ops. The zero value is the empty document.
type Delta struct {
	ops []Op
}

// New builds a normalized delta from ops.
func New(ops ...Op) Delta {
	var d Delta
	for _, op := range ops {
		d.push(op)
	}
	return d
}

// Ops returns a copy of the delta's ops.
func (d Delta) Ops() []Op {
	if len(d.ops) == 0 {
		return nil
	}
	out := make([]Op, len(d.ops))
	for i, op := range d.ops {
		out[i] = op.clone()
	}
	return out
}

// Len returns the number of ops.
func (d Delta) Len() int { return len(d.ops) }

// IsEmpty reports whether the delta has no ops.
func (d Delta) IsEmpty() bool { return len(d.ops) == 0 }

func (d Delta) Insert(text string, attrs AttributeMap) Delta {
	if text == "" {
		return d
	}
	return d.with(Op{Insert: text, Attributes: attrs.clone()})
}

func (d Delta) InsertEmbed(embed map[string]any, attrs AttributeMap) Delta {
	if embed == nil {
		return d
	}
	return d.with(Op{Embed: embed, Attributes: attrs.clone()})
}

func (d Delta) Retain(n int, attrs AttributeMap) Delta {
	if n <= 0 {
		return d
	}
	return d.with(Op{Retain: n, Attributes: attrs.clone()})
}

func (d Delta) Delete(n int) Delta {
	if n <= 0 {
		return d
	}
	return d.with(Op{Delete: n})
}

// Concat appends other's ops to d.
func (d Delta) Concat(other Delta) Delta {
	out := d.copy()
	for _, op := range other.ops {
		out.push(op)
	}
	return out
}

// Length returns the total length of all ops.
func (d Delta) Length() int {
	n := 0
	for _, op := range d.ops {
		n += op.Len()
	}
	return n
}

// IsDocument reports whether the delta consists of inserts only.
func (d Delta) IsDocument() bool {
	for _, op := range d.ops {
		if op.Kind() != KindInsert {
			return false
		}
	}
	return true
}

// Text returns the inserted text with embeds replaced by ObjectReplacement.
func (d Delta) Text() string {
	var sb strings.Builder
	for _, op := range d.ops {
		switch {
		case op.isEmbed():
			sb.WriteRune(ObjectReplacement)
		case op.isTextInsert():
			sb.WriteString(op.Insert)
		}
	}
	return sb.String()
}

// Slice returns the ops covering [start, end). A negative end means the end
// of the delta.
func (d Delta) Slice(start, end int) Delta {
	if end < 0 {
		end = math.MaxInt
	}
	if start < 0 {
		start = 0
	}
	var out Delta
	it := newIterator(d.ops)
	index := 0
	for index < end && it.hasNext() {
		var next Op
		if index < start {
			next = it.next(start - index)
		} else {
			next = it.next(end - index)
			out.push(next)
		}
		index += next.Len()
	}
	return out
}

// Equal reports whether d and other describe the same content. Documents are
// compared structurally through Diff.
func (d Delta) Equal(other Delta) bool {
	if d.IsDocument() && other.IsDocument() {
		diff, err := d.Diff(other)
		return err == nil && diff.IsEmpty()
	}
	return reflect.DeepEqual(New(d.ops...).ops, New(other.ops...).ops)
}

func (d Delta) with(op Op) Delta {
	out := d.copy()
	out.push(op)
	return out
}

func (d Delta) copy() Delta {
	if len(d.ops) == 0 {
		return Delta{}
	}
	ops := make([]Op, len(d.ops), len(d.ops)+1)
	copy(ops, d.ops)
	return Delta{ops: ops}
}

// push appends op in place, merging it with the previous op when possible.
// Callers own d.ops.
func (d *Delta) push(op Op) {
	if op.Delete < 0 || op.Retain < 0 {
		return
	}
	if op.Len() == 0 {
		return
	}
	op = op.clone()
	if op.Kind() != KindInsert {
		op.Insert = ""
		op.Embed = nil
	}
	if op.Kind() == KindDelete {
		op.Attributes = nil
	}

	index := len(d.ops)
	if index > 0 {
		last := d.ops[index-1]
		if op.Kind() == KindDelete && last.Kind() == KindDelete {
			d.ops[index-1] = Op{Delete: last.Delete + op.Delete}
			return
		}
		// Inserts go before a trailing delete.
		if last.Kind() == KindDelete && op.Kind() == KindInsert {
			index--
			if index == 0 {
				d.ops = append([]Op{op}, d.ops...)
				return
			}
			last = d.ops[index-1]
		}
		if op.Attributes.Equal(last.Attributes) {
			if op.isTextInsert() && last.isTextInsert() {
				d.ops[index-1] = Op{Insert: last.Insert + op.Insert, Attributes: last.Attributes}
				return
			}
			if op.Kind() == KindRetain && last.Kind() == KindRetain {
				d.ops[index-1] = Op{Retain: last.Retain + op.Retain, Attributes: last.Attributes}
				return
			}
		}
	}
	if index == len(d.ops) {
		d.ops = append(d.ops, op)
		return
	}
	d.ops = append(d.ops, Op{})
	copy(d.ops[index+1:], d.ops[index:])
	d.ops[index] = op
}

// chop drops a trailing attribute-less retain.
func (d Delta) chop() Delta {
	n := len(d.ops)
	if n == 0 {
		return d
	}
	last := d.ops[n-1]
	if last.Kind() == KindRetain && len(last.Attributes) == 0 {
		return Delta{ops: d.ops[:n-1]}
	}
	return d
}
