package format

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const (
	ListOrdered = "ordered"
	ListBullet  = "bullet"
)

type list struct{}

// List is the block format for ordered and bullet lists.
func List() Format { return list{} }

func (list) Name() string { return "list" }

func (list) Scope() Scope { return ScopeBlock }

func (list) Style(any) lipgloss.Style { return lipgloss.NewStyle() }

func (list) Create(span Span) Node {
	return Node{
		Tag:   "li",
		Attrs: map[string]string{"data-list": fmt.Sprint(span.Value)},
		Span:  span,
	}
}

func (list) LinePrefix(value any, ordinal int) string {
	switch value {
	case ListOrdered:
		return fmt.Sprintf("%d. ", ordinal)
	case ListBullet:
		return "• "
	default:
		return ""
	}
}
