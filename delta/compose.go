package delta

import (
	"errors"
	"reflect"
	"unicode/utf8"

	dmp "github.com/sergi/go-diff/diffmatchpatch"
)

// ErrNotDocument is returned when an operation requires insert-only deltas.
var ErrNotDocument = errors.New("delta: not a document")

// embedMarker stands in for embeds in the text handed to the character diff.
const embedMarker = "\x00"

// Compose returns the delta equivalent to applying d and then other.
func (d Delta) Compose(other Delta) Delta {
	thisIter := newIterator(d.ops)
	otherIter := newIterator(other.ops)
	var out Delta

	for thisIter.hasNext() || otherIter.hasNext() {
		if otherIter.peekKind() == KindInsert {
			out.push(otherIter.next(0))
			continue
		}
		if thisIter.peekKind() == KindDelete {
			out.push(thisIter.next(0))
			continue
		}

		length := min(thisIter.peekLength(), otherIter.peekLength())
		thisOp := thisIter.next(length)
		otherOp := otherIter.next(length)

		switch {
		case otherOp.Kind() == KindRetain:
			next := Op{}
			if thisOp.Kind() == KindRetain {
				next.Retain = length
			} else {
				next.Insert = thisOp.Insert
				next.Embed = thisOp.Embed
			}
			next.Attributes = composeAttributes(thisOp.Attributes, otherOp.Attributes, thisOp.Kind() == KindRetain)
			out.push(next)
		case otherOp.Kind() == KindDelete && thisOp.Kind() == KindRetain:
			out.push(otherOp)
		}
		// An insert followed by a delete cancels out.
	}
	return out.chop()
}

// Diff returns the change that turns document d into document other. The
// result is empty iff both documents are identical.
func (d Delta) Diff(other Delta) (Delta, error) {
	if reflect.DeepEqual(d.ops, other.ops) {
		return Delta{}, nil
	}
	a, ok := diffText(d)
	if !ok {
		return Delta{}, ErrNotDocument
	}
	b, ok := diffText(other)
	if !ok {
		return Delta{}, ErrNotDocument
	}

	diffs := dmp.New().DiffMain(a, b, false)
	thisIter := newIterator(d.ops)
	otherIter := newIterator(other.ops)
	var out Delta

	for _, df := range diffs {
		length := utf8.RuneCountInString(df.Text)
		for length > 0 {
			var opLength int
			switch df.Type {
			case dmp.DiffInsert:
				opLength = min(otherIter.peekLength(), length)
				out.push(otherIter.next(opLength))
			case dmp.DiffDelete:
				opLength = min(length, thisIter.peekLength())
				thisIter.next(opLength)
				out.push(Op{Delete: opLength})
			case dmp.DiffEqual:
				opLength = min(thisIter.peekLength(), otherIter.peekLength(), length)
				thisOp := thisIter.next(opLength)
				otherOp := otherIter.next(opLength)
				if sameInsert(thisOp, otherOp) {
					out.push(Op{Retain: opLength, Attributes: diffAttributes(thisOp.Attributes, otherOp.Attributes)})
				} else {
					out.push(otherOp)
					out.push(Op{Delete: opLength})
				}
			}
			length -= opLength
		}
	}
	return out.chop(), nil
}

func sameInsert(a, b Op) bool {
	if a.isEmbed() || b.isEmbed() {
		return a.isEmbed() && b.isEmbed() && reflect.DeepEqual(a.Embed, b.Embed)
	}
	return a.Insert == b.Insert
}

func diffText(d Delta) (string, bool) {
	buf := make([]byte, 0, 64)
	for _, op := range d.ops {
		switch {
		case op.Kind() != KindInsert:
			return "", false
		case op.isEmbed():
			buf = append(buf, embedMarker...)
		default:
			buf = append(buf, op.Insert...)
		}
	}
	return string(buf), true
}
