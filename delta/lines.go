package delta

import (
	"strings"
	"unicode/utf8"
)

// Line is one newline-terminated run of a document.
type Line struct {
	// Start is the document offset of the line's first character.
	Start int
	// Ops holds the line's inserts without the terminating newline.
	Ops []Op
	// Attributes are the block attributes carried by the terminating newline.
	Attributes AttributeMap
}

// Length returns the line length without its newline.
func (l Line) Length() int {
	n := 0
	for _, op := range l.Ops {
		n += op.Len()
	}
	return n
}

// Lines splits a document into lines. The text after the last newline always
// forms a (possibly empty) final line. Non-insert ops are skipped.
func (d Delta) Lines() []Line {
	lines := make([]Line, 0, 8)
	cur := Line{}
	offset := 0
	for _, op := range d.ops {
		switch {
		case op.Kind() != KindInsert:
			continue
		case op.isEmbed():
			cur.Ops = append(cur.Ops, op.clone())
			offset++
			continue
		}

		parts := strings.Split(op.Insert, "\n")
		for i, part := range parts {
			if part != "" {
				cur.Ops = append(cur.Ops, Op{Insert: part, Attributes: op.Attributes.clone()})
				offset += utf8.RuneCountInString(part)
			}
			if i == len(parts)-1 {
				break
			}
			cur.Attributes = op.Attributes.clone()
			lines = append(lines, cur)
			offset++
			cur = Line{Start: offset}
		}
	}
	return append(lines, cur)
}
