package delta

import "math"

type iterator struct {
	ops    []Op
	index  int
	offset int
}

func newIterator(ops []Op) *iterator {
	return &iterator{ops: ops}
}

func (it *iterator) hasNext() bool {
	return it.peekLength() < math.MaxInt
}

func (it *iterator) peekLength() int {
	if it.index >= len(it.ops) {
		return math.MaxInt
	}
	return it.ops[it.index].Len() - it.offset
}

func (it *iterator) peekKind() Kind {
	if it.index >= len(it.ops) {
		return KindRetain
	}
	return it.ops[it.index].Kind()
}

// next consumes up to length offsets of the current op. A length <= 0 consumes
// the rest of it. Past the end it yields an unbounded retain.
func (it *iterator) next(length int) Op {
	if length <= 0 {
		length = math.MaxInt
	}
	if it.index >= len(it.ops) {
		return Op{Retain: math.MaxInt}
	}

	op := it.ops[it.index]
	offset := it.offset
	opLen := op.Len()
	if length >= opLen-offset {
		length = opLen - offset
		it.index++
		it.offset = 0
	} else {
		it.offset += length
	}

	switch op.Kind() {
	case KindDelete:
		return Op{Delete: length}
	case KindRetain:
		return Op{Retain: length, Attributes: op.Attributes}
	}
	if op.isEmbed() {
		return Op{Embed: op.Embed, Attributes: op.Attributes}
	}
	return Op{Insert: runeSlice(op.Insert, offset, offset+length), Attributes: op.Attributes}
}

func runeSlice(s string, start, end int) string {
	r := []rune(s)
	if end > len(r) {
		end = len(r)
	}
	if start > end {
		start = end
	}
	if start == 0 && end == len(r) {
		return s
	}
	return string(r[start:end])
}
