// Package grapheme splits document text into display clusters and finds word
// boundaries. Offsets are rune offsets, matching document positions.
package grapheme

import (
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Cluster is one user-perceived character.
type Cluster struct {
	Text string
	// Offset is the rune offset of the cluster's first rune.
	Offset int
	Runes  int
	// Width is the terminal cell width, at least 1.
	Width int
}

// Clusters splits text, whose first rune sits at offset start.
func Clusters(text string, start int) []Cluster {
	if text == "" {
		return nil
	}
	out := make([]Cluster, 0, utf8.RuneCountInString(text))
	g := uniseg.NewGraphemes(text)
	offset := start
	for g.Next() {
		s := g.Str()
		c := Cluster{Text: s, Offset: offset, Runes: utf8.RuneCountInString(s), Width: runewidth.StringWidth(s)}
		if c.Width == 0 {
			c.Width = 1
		}
		out = append(out, c)
		offset += c.Runes
	}
	return out
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	if cluster == "" {
		return false
	}
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// PrevWord returns the start of the word before col: whitespace is skipped,
// then non-whitespace. line holds one line without its newline.
func PrevWord(line []rune, col int) int {
	i := min(max(col, 0), len(line))
	for i > 0 && unicode.IsSpace(line[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(line[i-1]) {
		i--
	}
	return i
}

// NextWord returns the end of the word after col.
func NextWord(line []rune, col int) int {
	i := min(max(col, 0), len(line))
	for i < len(line) && unicode.IsSpace(line[i]) {
		i++
	}
	for i < len(line) && !unicode.IsSpace(line[i]) {
		i++
	}
	return i
}
