package format

import "github.com/charmbracelet/lipgloss"

const HighlightName = "highlight"

// Highlight is an inline format whose nodes act as buttons: activating one
// removes the highlight from its span.
type Highlight struct {
	style lipgloss.Style
}

func NewHighlight() *Highlight {
	return &Highlight{
		style: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
	}
}

func (h *Highlight) Name() string { return HighlightName }

func (h *Highlight) Scope() Scope { return ScopeInline }

func (h *Highlight) Style(any) lipgloss.Style { return h.style }

// Create builds a focusable button node. The span's position is captured
// here; activation does not look it up again.
func (h *Highlight) Create(span Span) Node {
	return Node{
		Format: HighlightName,
		Tag:    "strong",
		Class:  HighlightName,
		Attrs: map[string]string{
			"role":     "button",
			"tabindex": "0",
		},
		Span:        span,
		Focusable:   true,
		Interactive: true,
		OnActivate: func(ev *Event) {
			ev.StopPropagation()
			if span.Length <= 0 {
				return
			}
			ev.Dispatch(RemoveFormatMsg{
				Format: HighlightName,
				Index:  span.Index,
				Length: span.Length,
			})
		},
	}
}
