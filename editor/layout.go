package editor

import (
	"reflect"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/format"
	"github.com/iw2rmb/richbridge/internal/grapheme"
)

const (
	tabWidth   = 4
	embedGlyph = "□"
)

// cell is one grapheme cluster (or embed) of a line.
type cell struct {
	text  string
	index int // document offset of the cluster's first rune
	runes int
	width int
	embed bool
	attrs delta.AttributeMap
}

type lineLayout struct {
	start  int
	length int
	prefix string
	cells  []cell
}

func (l lineLayout) prefixWidth() int { return runewidth.StringWidth(l.prefix) }

// buildLayout splits lines into cells. List lines get their prefix from the
// registered block format.
func buildLayout(lines []delta.Line, reg *format.Registry) []lineLayout {
	out := make([]lineLayout, 0, len(lines))
	ordinals := map[string]int{}
	blocks := reg.BlockNames()
	var prevAttrs delta.AttributeMap

	for _, line := range lines {
		ll := lineLayout{start: line.Start, length: line.Length()}

		for _, name := range blocks {
			value, ok := line.Attributes[name]
			if !ok || !line.Attributes.Has(name) {
				delete(ordinals, name)
				continue
			}
			if pv, ok := prevAttrs[name]; ok && reflect.DeepEqual(pv, value) {
				ordinals[name]++
			} else {
				ordinals[name] = 1
			}
			f, _ := reg.Lookup(name)
			if lp, ok := f.(format.LinePrefixer); ok {
				ll.prefix += lp.LinePrefix(value, ordinals[name])
			}
		}
		prevAttrs = line.Attributes

		offset := line.Start
		for _, op := range line.Ops {
			if op.Embed != nil {
				ll.cells = append(ll.cells, cell{
					text: embedGlyph, index: offset, runes: 1, width: 1, embed: true, attrs: op.Attributes,
				})
				offset++
				continue
			}
			for _, cl := range grapheme.Clusters(op.Insert, offset) {
				c := cell{text: cl.Text, index: cl.Offset, runes: cl.Runes, width: cl.Width, attrs: op.Attributes}
				if cl.Text == "\t" {
					c.text = strings.Repeat(" ", tabWidth)
					c.width = tabWidth
				}
				ll.cells = append(ll.cells, c)
				offset += cl.Runes
			}
		}
		out = append(out, ll)
	}
	return out
}

// indexAtCell maps a cell column on the line (prefix included) to the caret
// offset before the cluster under it. Columns past the end map to the line
// end.
func (l lineLayout) indexAtCell(x int) int {
	x -= l.prefixWidth()
	if x <= 0 {
		return l.start
	}
	col := 0
	for _, c := range l.cells {
		if x < col+c.width {
			return c.index
		}
		col += c.width
	}
	return l.start + l.length
}

// cellAt returns the cluster under column x, if any.
func (l lineLayout) cellAt(x int) (cell, bool) {
	x -= l.prefixWidth()
	if x < 0 {
		return cell{}, false
	}
	col := 0
	for _, c := range l.cells {
		if x < col+c.width {
			return c, true
		}
		col += c.width
	}
	return cell{}, false
}

// cellOf returns the column of offset on the line (prefix included).
func (l lineLayout) cellOf(index int) int {
	col := l.prefixWidth()
	for _, c := range l.cells {
		if index <= c.index {
			return col
		}
		col += c.width
	}
	return col
}
