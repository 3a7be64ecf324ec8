package format

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// simple is an inline format with a fixed style and tag.
type simple struct {
	name  string
	tag   string
	style lipgloss.Style
}

func (f simple) Name() string { return f.name }

func (f simple) Scope() Scope { return ScopeInline }

func (f simple) Style(any) lipgloss.Style { return f.style }

func (f simple) Create(span Span) Node {
	return Node{Tag: f.tag, Span: span}
}

func Bold() Format {
	return simple{name: "bold", tag: "strong", style: lipgloss.NewStyle().Bold(true)}
}

func Italic() Format {
	return simple{name: "italic", tag: "em", style: lipgloss.NewStyle().Italic(true)}
}

func Underline() Format {
	return simple{name: "underline", tag: "u", style: lipgloss.NewStyle().Underline(true)}
}

func Strike() Format {
	return simple{name: "strike", tag: "s", style: lipgloss.NewStyle().Strikethrough(true)}
}

func Code() Format {
	return simple{
		name:  "code",
		tag:   "code",
		style: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")),
	}
}

type link struct{}

// Link carries its target URL as the value.
func Link() Format { return link{} }

func (link) Name() string { return "link" }

func (link) Scope() Scope { return ScopeInline }

func (link) Style(any) lipgloss.Style {
	return lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39"))
}

func (link) Create(span Span) Node {
	href := ""
	if span.Value != nil {
		href = fmt.Sprint(span.Value)
	}
	return Node{
		Tag:   "a",
		Attrs: map[string]string{"href": href, "rel": "noopener noreferrer", "target": "_blank"},
		Span:  span,
	}
}
