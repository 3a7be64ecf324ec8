package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the editor's rendering. Format styles come from the format
// registry and are layered under Selection, NodeFocus and Cursor.
type Style struct {
	Text        lipgloss.Style
	Placeholder lipgloss.Style
	ListPrefix  lipgloss.Style
	Embed       lipgloss.Style

	Selection lipgloss.Style
	Cursor    lipgloss.Style
	// NodeFocus marks the interactive node reached by keyboard traversal.
	NodeFocus lipgloss.Style

	Toolbar       lipgloss.Style
	ToolbarItem   lipgloss.Style
	ToolbarActive lipgloss.Style
}

func DefaultStyle() Style {
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	return Style{
		Text:        lipgloss.NewStyle(),
		Placeholder: dim.Italic(true),
		ListPrefix:  lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Embed:       dim,

		Selection: lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:    lipgloss.NewStyle().Reverse(true),
		NodeFocus: lipgloss.NewStyle().Underline(true).Reverse(true),

		Toolbar:       lipgloss.NewStyle(),
		ToolbarItem:   dim,
		ToolbarActive: lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true),
	}
}
