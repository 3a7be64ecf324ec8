package format

import "github.com/charmbracelet/lipgloss"

type Scope int

const (
	// ScopeInline formats apply to runs of characters.
	ScopeInline Scope = iota
	// ScopeBlock formats apply to whole lines and live on the line's newline.
	ScopeBlock
)

func (s Scope) String() string {
	if s == ScopeBlock {
		return "block"
	}
	return "inline"
}

// Span is a formatted run of the document in rune offsets.
type Span struct {
	Index  int
	Length int
	Value  any
}

func (s Span) End() int { return s.Index + s.Length }

// Node is the materialized form of a formatted span. Interactive nodes are
// reachable by focus traversal and clicks; OnActivate runs on both.
type Node struct {
	// Format is the name of the format that created the node.
	Format string

	Tag   string
	Class string
	Attrs map[string]string

	Span Span

	Focusable   bool
	Interactive bool
	OnActivate  func(*Event)
}

// Format is the capability a registered format provides.
type Format interface {
	Name() string
	Scope() Scope
	// Style renders text carrying the format with the given value.
	Style(value any) lipgloss.Style
	// Create materializes a node for span. It is called on every render.
	Create(span Span) Node
}

// LinePrefixer is implemented by block formats that draw a marker before each
// line, such as list bullets. ordinal is 1-based within a run of lines with the
// same value.
type LinePrefixer interface {
	LinePrefix(value any, ordinal int) string
}
