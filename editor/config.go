package editor

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/tidwall/sjson"

	"github.com/iw2rmb/richbridge/delta"
	"github.com/iw2rmb/richbridge/format"
)

var (
	ErrUnknownTheme  = errors.New("editor: unknown theme")
	ErrUnknownFormat = errors.New("editor: unknown format")
)

// Theme selects the editor chrome.
type Theme string

const (
	// ThemeCore has no toolbar. The empty theme is ThemeCore.
	ThemeCore Theme = "core"
	// ThemeSnow draws the toolbar above the text.
	ThemeSnow Theme = "snow"
	// ThemeBubble draws the toolbar below the text while a range is selected.
	ThemeBubble Theme = "bubble"
)

func (t Theme) normalize() (Theme, bool) {
	switch t {
	case "", ThemeCore:
		return ThemeCore, true
	case ThemeSnow, ThemeBubble:
		return t, true
	default:
		return t, false
	}
}

// ToolbarItem is one toolbar control. A nil Value toggles the format on and
// off; otherwise the control sets Format to Value.
type ToolbarItem struct {
	Format string
	Value  any
}

// MarshalJSON writes "bold" for plain toggles and {"list":"ordered"} for
// valued controls.
func (t ToolbarItem) MarshalJSON() ([]byte, error) {
	if t.Value == nil {
		return json.Marshal(t.Format)
	}
	return sjson.SetBytes([]byte(`{}`), escapeKey(t.Format), t.Value)
}

func escapeKey(k string) string {
	out := make([]byte, 0, len(k))
	for i := 0; i < len(k); i++ {
		switch k[i] {
		case '.', '*', '?', '|', '#', '@', '\\', ':':
			out = append(out, '\\')
		}
		out = append(out, k[i])
	}
	return string(out)
}

// Config configures the editor Model.
type Config struct {
	// ID names the rendering surface; New generates one when empty.
	ID string

	// Initial document. Non-insert ops are dropped.
	Contents delta.Delta

	// Formats restricts the formats the document may carry. Empty allows
	// every registered format.
	Formats []string
	Toolbar []ToolbarItem
	Theme   Theme

	Placeholder string
	ReadOnly    bool

	// Registry resolves format names; nil uses format.DefaultRegistry.
	Registry *format.Registry

	// KeyMap defaults to DefaultKeyMap when it has no bindings.
	KeyMap KeyMap
	// Style defaults to DefaultStyle when nil.
	Style *Style

	// Clipboard enables copy, cut and paste. Errors are logged and ignored.
	Clipboard Clipboard

	// Forwarded to buffer.Options.
	HistoryLimit int

	Logger *slog.Logger
}
